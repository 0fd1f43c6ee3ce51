package parser

import (
	"fmt"
	"os"

	"fygc/internal/ast"
	"fygc/internal/lexer"
	"fygc/internal/source"
)

// FileParser reads, lexes, and parses .fyg source files from disk. It
// satisfies both modgraph.HeaderParser and buildpipeline.ModuleParser
// (the path-based contracts buildpipeline.Run drives directly) by
// wrapping the token-based Parser above with file IO and a shared
// source.FileSet for span attribution.
type FileParser struct {
	Files *source.FileSet
}

// NewFileParser returns a FileParser backed by a fresh FileSet.
func NewFileParser() *FileParser {
	return &FileParser{Files: source.NewFileSet()}
}

func (fp *FileParser) tokensFor(path string) ([]byte, source.FileID, []byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("parser: reading %s: %w", path, err)
	}
	id := fp.Files.Add(path, content, 0)
	return content, id, content, nil
}

// ParseHeader implements modgraph.HeaderParser / buildpipeline.ModuleParser's
// header half: lex the file, then parse only its module/export/import
// clauses.
func (fp *FileParser) ParseHeader(path string) ([]string, []ast.MixedIdentifier, []ast.Import, error) {
	_, id, content, err := fp.tokensFor(path)
	if err != nil {
		return nil, nil, nil, err
	}
	toks, err := lexer.Tokenize(string(content))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parser: lexing %s: %w", path, err)
	}
	p := New(toks, id)
	return p.ParseHeader()
}

// ParseBody implements buildpipeline.ModuleParser's full-body half:
// lex and parse the entire file.
func (fp *FileParser) ParseBody(path string) (ast.Program, error) {
	_, id, content, err := fp.tokensFor(path)
	if err != nil {
		return ast.Program{}, err
	}
	toks, err := lexer.Tokenize(string(content))
	if err != nil {
		return ast.Program{}, fmt.Errorf("parser: lexing %s: %w", path, err)
	}
	p := New(toks, id)
	return p.Parse()
}
