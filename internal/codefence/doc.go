// Package codefence turns typed Markdown-style code fences into code
// blocks and turns deleted code blocks back into editable fence text.
//
// A paragraph sequence
//
//	```go
//	fmt.Println("hi")
//	```
//
// becomes one code_block atom when Enter is pressed at the end of the
// closing fence (Promote). Deleting that block with Backspace or by
// deleting its node selection reconstructs the fence paragraphs instead
// of losing the code (Filter and Appender). A transaction carrying the
// hard-delete meta removes the block for good.
package codefence
