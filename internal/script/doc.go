// Package script reads YAML event scripts and replays them against an
// editing session.
//
// A script names a starting document, a list of steps and optionally
// the expected outcome:
//
//	name: fence promotion
//	doc:
//	  format: html
//	  content: "<p></p>"
//	steps:
//	  - type: "```go"
//	  - key: Enter
//	  - type: "fmt.Println()"
//	  - key: Enter
//	  - type: "```"
//	  - key: Enter
//	expect:
//	  markdown: "```go\nfmt.Println()\n```"
//
// Each step sets exactly one of type, key, paste, paste_html,
// paste_markdown, select, select_node, action, undo or redo. A step with
// repeat runs that many times.
package script
