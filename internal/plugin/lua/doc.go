// Package lua runs Lua scripts as input interceptors.
//
// A script registers handlers for event types through the composer
// module:
//
//	composer.on("text", function(ev)
//	    if ev.text == " " and ev.before:sub(-6) == ":shrug" then
//	        return { delete_before = 6, insert = "¯\\_(ツ)_/¯ " }
//	    end
//	end)
//
// Handlers receive a table describing the event and the cursor context:
//
//	type       "key", "text" or "paste"
//	key        key spec such as "Mod-Alt-1" (key events)
//	text       typed or pasted plain text
//	html       pasted HTML
//	markdown   pasted Markdown
//	before     text of the current block before the cursor
//	after      text of the current block after the cursor
//	block      kind of the current block, e.g. "paragraph"
//	collapsed  whether the selection is a cursor
//
// Inline atoms appear as U+FFFC in before and after. A handler declines
// by returning nil or false. Returning true swallows the event. A table
// result edits the document:
//
//	delete_before  runes to remove before the cursor
//	delete_after   runes to remove after the cursor
//	insert         text replacing the selection; newlines split blocks
//	action         keymap action to run instead, e.g. "heading.2"
//
// # Sandbox
//
// Scripts run with the base, table, string and math libraries only.
// dofile, loadfile, load, loadstring and require are removed, and print
// writes to the log. Every handler call runs under a timeout.
package lua
