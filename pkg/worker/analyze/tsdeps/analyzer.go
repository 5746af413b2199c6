package tsdeps

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// maxParseBytes guards the parser against generated bundles that slipped
// past directory exclusions.
const maxParseBytes = 512 * 1024

// TypeSignature is one dependency of the source under test: a type that
// appears as a constructor parameter of its classes, with the methods a
// generated test will need to mock.
type TypeSignature struct {
	TypeName string
	Methods  []MethodSignature
}

// MethodSignature carries signature text verbatim from the defining file,
// untruncated, so the generator mocks against literal types.
type MethodSignature struct {
	Name       string
	ParamsText string
	ReturnText string
}

// denyList names framework and infrastructure types that tests mock by
// convention; their signatures would only bloat the prompt.
var denyList = map[string]bool{
	"Logger":        true,
	"Repository":    true,
	"DataSource":    true,
	"EntityManager": true,
	"ConfigService": true,
	"HttpService":   true,
	"Connection":    true,
	"QueryRunner":   true,
	"Model":         true,
}

// walkSkipDirs are infrastructure directories never holding first-party type
// definitions. Deliberately narrower than the coverage exclusions: types and
// interfaces directories are exactly where definitions live.
var walkSkipDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	".git":         true,
}

var errStopWalk = errors.New("stop walk")

// Analyzer resolves the constructor dependencies of a TypeScript source file
// to their method signatures elsewhere in the repo.
type Analyzer struct {
	log logutil.Log
}

func NewAnalyzer(log logutil.Log) *Analyzer {
	return &Analyzer{log: log}
}

// DependencySignatures renders the analysis as a prompt block. Empty when
// the source has no analyzable dependencies or the analysis failed.
func (a Analyzer) DependencySignatures(ctx context.Context, repoPath, sourceRel string) string {
	return FormatPromptBlock(a.Analyze(ctx, repoPath, sourceRel))
}

// Analyze parses the source's classes and returns an entry per constructor
// parameter type, skipping the deny-list. Analysis is best effort: any
// failure logs and returns an empty collection, generation proceeds without
// signatures.
func (a Analyzer) Analyze(ctx context.Context, repoPath, sourceRel string) []TypeSignature {
	sigs, err := a.analyze(ctx, repoPath, sourceRel)
	if err != nil {
		a.log.Warnf("Dependency analysis of %s failed: %s", sourceRel, err)
		return nil
	}
	return sigs
}

func (a Analyzer) analyze(ctx context.Context, repoPath, sourceRel string) ([]TypeSignature, error) {
	content, err := ioutil.ReadFile(filepath.Join(repoPath, filepath.FromSlash(sourceRel)))
	if err != nil {
		return nil, errors.Wrap(err, "can't read source file")
	}

	paramTypes, err := constructorParamTypes(ctx, content, strings.HasSuffix(sourceRel, ".tsx"))
	if err != nil {
		return nil, err
	}

	sigs := []TypeSignature{}
	for _, typeName := range paramTypes {
		methods, found := a.findTypeMethods(ctx, repoPath, typeName)
		if !found {
			a.log.Debugf("tsdeps", "No definition of %s found in %s", typeName, repoPath)
		}
		sigs = append(sigs, TypeSignature{
			TypeName: typeName,
			Methods:  methods,
		})
	}
	return sigs, nil
}

func parseTS(ctx context.Context, content []byte, isTSX bool) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	if isTSX {
		parser.SetLanguage(tsx.GetLanguage())
	} else {
		parser.SetLanguage(typescript.GetLanguage())
	}

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse typescript")
	}
	return tree, nil
}

var classNodeTypes = map[string]bool{
	"class_declaration":          true,
	"abstract_class_declaration": true,
}

var typeDeclNodeTypes = map[string]bool{
	"class_declaration":          true,
	"abstract_class_declaration": true,
	"interface_declaration":      true,
}

func collectNodes(node *sitter.Node, wantTypes map[string]bool, out *[]*sitter.Node) {
	if wantTypes[node.Type()] {
		*out = append(*out, node)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectNodes(node.Child(i), wantTypes, out)
	}
}

func nodeText(node *sitter.Node, content []byte) string {
	return string(content[node.StartByte():node.EndByte()])
}

func childOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// typeAnnotationText returns the annotated type without the leading colon.
func typeAnnotationText(annotation *sitter.Node, content []byte) string {
	for i := 0; i < int(annotation.ChildCount()); i++ {
		if child := annotation.Child(i); child.Type() != ":" {
			return nodeText(child, content)
		}
	}
	return ""
}

func constructorParamTypes(ctx context.Context, content []byte, isTSX bool) ([]string, error) {
	tree, err := parseTS(ctx, content, isTSX)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	classes := []*sitter.Node{}
	collectNodes(tree.RootNode(), classNodeTypes, &classes)

	seen := map[string]bool{}
	types := []string{}
	for _, class := range classes {
		for _, paramType := range classConstructorParamTypes(class, content) {
			name := baseTypeName(paramType)
			if name == "" || seen[name] || denyList[name] {
				continue
			}
			// lowercase-initial types are primitives or local aliases, not
			// injectable dependencies
			if !unicode.IsUpper(rune(name[0])) {
				continue
			}
			seen[name] = true
			types = append(types, name)
		}
	}
	return types, nil
}

func classConstructorParamTypes(class *sitter.Node, content []byte) []string {
	body := childOfType(class, "class_body")
	if body == nil {
		return nil
	}

	types := []string{}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		if member.Type() != "method_definition" {
			continue
		}
		name := childOfType(member, "property_identifier")
		if name == nil || nodeText(name, content) != "constructor" {
			continue
		}

		params := childOfType(member, "formal_parameters")
		if params == nil {
			continue
		}
		for j := 0; j < int(params.ChildCount()); j++ {
			param := params.Child(j)
			if param.Type() != "required_parameter" && param.Type() != "optional_parameter" {
				continue
			}
			annotation := childOfType(param, "type_annotation")
			if annotation == nil {
				continue
			}
			if t := typeAnnotationText(annotation, content); t != "" {
				types = append(types, t)
			}
		}
	}
	return types
}

// baseTypeName reduces a parameter type to the identifier a definition would
// declare: generic arguments and array suffixes are stripped.
func baseTypeName(typeText string) string {
	t := strings.TrimSpace(typeText)
	if idx := strings.Index(t, "<"); idx >= 0 {
		t = t[:idx]
	}
	t = strings.TrimSuffix(t, "[]")
	return strings.TrimSpace(t)
}

// findTypeMethods walks the repo for the class or interface declaring
// typeName and extracts its public method signatures.
func (a Analyzer) findTypeMethods(ctx context.Context, repoPath, typeName string) ([]MethodSignature, bool) {
	var methods []MethodSignature
	found := false
	needle := []byte(typeName)

	err := filepath.Walk(repoPath, func(p string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if info.IsDir() {
			if p != repoPath && walkSkipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if ext := filepath.Ext(p); ext != ".ts" && ext != ".tsx" {
			return nil
		}
		if info.Size() > maxParseBytes {
			return nil
		}

		content, readErr := ioutil.ReadFile(p)
		if readErr != nil || !bytes.Contains(content, needle) {
			return nil
		}

		ms, ok := typeMethodsInFile(ctx, content, strings.HasSuffix(p, ".tsx"), typeName)
		if !ok {
			return nil
		}

		methods = ms
		found = true
		return errStopWalk
	})
	if err != nil && err != errStopWalk {
		a.log.Warnf("Type definition walk for %s failed: %s", typeName, err)
	}

	return methods, found
}

func typeMethodsInFile(ctx context.Context, content []byte, isTSX bool, typeName string) ([]MethodSignature, bool) {
	tree, err := parseTS(ctx, content, isTSX)
	if err != nil {
		return nil, false
	}
	defer tree.Close()

	decls := []*sitter.Node{}
	collectNodes(tree.RootNode(), typeDeclNodeTypes, &decls)

	for _, decl := range decls {
		name := childOfType(decl, "type_identifier")
		if name == nil || nodeText(name, content) != typeName {
			continue
		}
		return declMethods(decl, content), true
	}
	return nil, false
}

func declMethods(decl *sitter.Node, content []byte) []MethodSignature {
	body := childOfType(decl, "class_body")
	memberType := "method_definition"
	if body == nil {
		if body = childOfType(decl, "interface_body"); body == nil {
			body = childOfType(decl, "object_type")
		}
		memberType = "method_signature"
	}
	if body == nil {
		return nil
	}

	methods := []MethodSignature{}
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		if member.Type() != memberType {
			continue
		}
		if m, ok := methodFromNode(member, content); ok {
			methods = append(methods, m)
		}
	}
	return methods
}

func methodFromNode(node *sitter.Node, content []byte) (MethodSignature, bool) {
	var name, params, returnText, access string

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "accessibility_modifier":
			access = nodeText(child, content)
		case "property_identifier":
			name = nodeText(child, content)
		case "formal_parameters":
			params = nodeText(child, content)
		case "type_annotation":
			returnText = typeAnnotationText(child, content)
		}
	}

	if name == "" || name == "constructor" || access == "private" || access == "protected" {
		return MethodSignature{}, false
	}

	return MethodSignature{
		Name:       name,
		ParamsText: params,
		ReturnText: returnText,
	}, true
}

// FormatPromptBlock renders the signatures for insertion into a generation
// prompt. Empty input renders empty.
func FormatPromptBlock(sigs []TypeSignature) string {
	if len(sigs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Dependency signatures (mock these exactly):\n")
	for _, sig := range sigs {
		fmt.Fprintf(&b, "%s:\n", sig.TypeName)
		if len(sig.Methods) == 0 {
			b.WriteString("  (no definition found in this repository)\n")
			continue
		}
		for _, m := range sig.Methods {
			line := "  " + m.Name + m.ParamsText
			if m.ReturnText != "" {
				line += ": " + m.ReturnText
			}
			b.WriteString(line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
