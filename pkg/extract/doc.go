// Package extract finds module record lines in a JavaScript bundle.
//
// # Overview
//
// A Metro-style bundle declares every module as one long line that closes
// with the module id, its dependency ids and its verbose name:
//
//	},3,[1,2],"src/App.tsx");
//
// Bundles routinely run to tens of megabytes, so the line search is delegated
// to a [Searcher]. The default [ProcessSearcher] spawns ripgrep with
// [DefaultPattern]; [ScanSearcher] does the same work in-process with a Go
// regular expression for hosts without ripgrep.
//
// # Reassembly
//
// The search output is read in chunks of at most [Options.ChunkSize] bytes,
// and chunk boundaries fall anywhere. [Reassembler] stitches the pieces back
// together: a chunk's trailing piece that does not end with
// [RecordTerminator] is carried into the next chunk. Text still carried when
// the stream ends is reported as a truncated record.
//
// # Errors
//
// Search tools exit non-zero both when they fail and when nothing matched.
// [Extractor.Extract] tells the two apart by the error stream: text there is
// an ErrCodeExtractionFailed error carrying the text verbatim, silence is an
// empty result with [Result.NoMatches] set.
package extract
