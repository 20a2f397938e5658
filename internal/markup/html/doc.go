// Package html converts documents to and from the HTML form the editor
// stores and pastes.
//
// Atoms keep their attributes in data-* attributes so that a document
// survives a Serialize/Parse round trip unchanged:
//
//	<span data-type="math" data-latex="x^2">x^2</span>
//	<a data-tag="go" href="/tags/go">#go</a>
//	<span data-mention="true" data-uid="..." data-uniqueId="ada">@ada</span>
//	<pre data-prism="true" data-language="go"><code>...</code></pre>
package html
