// Package file provides file-backed implementations of the document
// and vector stores. This is the reference persistence layout:
//
//	knowledge_dir/
//	  metadata/documents.json        map of document ID to document
//	  metadata/{doc_id}_chunks.json  the document's ordered chunk list and texts
//	  embeddings/{chunk_id}.vec      one serialised vector per chunk
//
// All writes go through a temp-file-and-rename so a crash never leaves
// a half-written metadata file. The layout is single-writer: sharing a
// knowledge directory between processes is not supported.
package file
