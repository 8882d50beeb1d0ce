// Package bundle parses module record lines into [Module] values.
//
// A record line ends with the module id, the bracketed dependency id list
// and the quoted verbose name:
//
//	},12,[3,4,7],"src/screens/Home.tsx");
//
// [Parse] is lenient: blank lines are skipped, lines that do not match
// [RecordPattern] are counted and logged, and parsing always runs to the end
// of the input. Repeated ids resolve to the last record seen, kept at the
// position of the first.
package bundle
