// Package render is the contract between the document and the host's
// renderers.
//
// A renderer receives a View per node, {kind, attrs, children}, and a
// Handle that can select the node, delete it, or (math only) copy its
// latex to the clipboard. Nothing else a renderer does reaches the
// document. Math that fails to render shows its raw latex, and
// highlighted code is presentation only.
//
// Terminal is a renderer for command-line hosts.
package render
