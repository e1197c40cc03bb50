// Package configxml edits the version attributes of a Cordova config.xml.
//
// The document is never round-tripped through an object model. The root start
// tag is located with a streaming decoder that reports byte offsets, its
// attributes are scanned in place, and only the bytes of the targeted
// attribute values (or the insertion point of a new attribute) change. All
// other content, including comments, attribute order, quoting and whitespace,
// is preserved byte for byte.
package configxml
