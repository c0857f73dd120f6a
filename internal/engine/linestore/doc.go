// Package linestore implements the line storage behind a document: a
// three-level sparse array of lines with cursor-cached access, structural
// edits, bulk load and save, and a bitmap index over annotated lines.
//
// # Layout
//
// A Store owns a growable list of data slots. Each data slot owns a header
// table of up to HeaderSize blocks, and each block holds up to
// LinesPerBlock lines packed from index zero. Every level caches the line
// counts of its children, so translating a line number scans at most the
// data slots and one header:
//
//	Store ─┬─ data[0] ── header ─┬─ block ── lines[0..k)
//	       │                     └─ block ── ...
//	       └─ data[1] ── header ── ...
//
// Containers are created on first insert into a region and released as
// soon as they become empty.
//
// # Access
//
// Line(n) is position independent and returns "" out of range. Position,
// Next and Prev walk the document sequentially in O(1) per step:
//
//	s.Position(0)
//	for text, ok := s.Next(); ok; text, ok = s.Next() {
//	    fmt.Println(text)
//	}
//
// # Edits
//
// PutLine inserts or overwrites; DeleteLines, SplitLine and JoinLine cover
// the remaining line edits. MarkLine records delayed deletes and joins that
// ApplyMarks performs in a single pass. Blocks split when an insert finds
// them full; the Strategy decides where the cut falls.
//
// # Annotations
//
// PutColor attaches an annotation (see package spans) to a line. Bitmaps at
// block, header and data level mark subtrees holding annotated lines, so
// Color(n, Up) and Color(n, Down) find the nearest annotated line without
// scanning the lines in between.
//
// # Errors
//
// Reads never fail. Out-of-range mutations return a *RangeError; a broken
// invariant surfaces as an *InconsistencyError, after which the caller
// should EmergencySave the document and discard the store.
package linestore
