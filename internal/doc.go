// Package internal provides the engine that classifies source files line by
// line.
//
// Engine selects a language table by file extension and runs one or both
// classifiers over the file:
//
//   - the rule table tokenizer (package lex, reconciled by package lines),
//     which reports 0-based indices of meaningful lines;
//   - the tree-sitter extractor (package tree), which reports 1-based numbers
//     of executable lines outside comments and string literals.
//
// Results can be cached on disk. A cache entry is keyed by path and mode and
// is dropped when the file content, its modification time or any dependency
// file such as the configuration changes.
//
// Usage:
//
//	engine, err := internal.NewEngine(".", internal.Options{Mode: types.ModeBoth})
//	if err != nil {
//	    // handle error
//	}
//	defer engine.Close()
//
//	stat, err := engine.Run(ctx, "main.py")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(stat.Meaningful, len(stat.Executable))
//
// StartWatching re-classifies supported files as they are written and reports
// each fresh result to the OnChange callback.
package internal
