package extractor

import (
	"unsafe"

	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/standardbeagle/julie/internal/types"
)

func init() {
	setupGo()
	setupPython()
	setupJavaScript()
	setupTypeScript()
	setupRust()
	setupJava()
	setupCSharp()
	setupCpp()
	setupPHP()
	setupZig()
}

// newLanguage validates that a probe parser accepts the grammar, then
// hands back the Language for register's pool to bind new parsers
// against. Returns nil (and registers nothing) on failure, matching the
// teacher's "languages that fail to bind are simply absent" policy
// rather than panicking at process startup.
func newLanguage(languagePtr unsafe.Pointer) *tree_sitter.Language {
	probe := tree_sitter.NewParser()
	language := tree_sitter.NewLanguage(languagePtr)
	if err := probe.SetLanguage(language); err != nil {
		return nil
	}
	return language
}

func buildQuery(language *tree_sitter.Language, src string) *tree_sitter.Query {
	query, _ := tree_sitter.NewQuery(language, src)
	// The tree-sitter Go binding can return a typed-nil error even on
	// success; check the query pointer, not the error.
	return query
}

func setupGo() {
	lang := newLanguage(tree_sitter_go.Language())
	if lang == nil {
		return
	}
	query := buildQuery(lang, `
        (function_declaration name: (identifier) @function.name) @function
        (method_declaration
            receiver: (parameter_list) @method.receiver
            name: (field_identifier) @method.name) @method
        (type_declaration
            (type_spec name: (type_identifier) @struct.name)) @struct
        (const_declaration
            (const_spec name: (identifier) @constant.name)) @constant
        (var_declaration
            (var_spec name: (identifier) @variable.name)) @variable
        (import_spec path: (interpreted_string_literal) @import.name) @import
    `)
	kinds := map[string]types.SymbolKind{
		"function": types.KindFunction,
		"method":   types.KindMethod,
		"struct":   types.KindType,
		"constant": types.KindConstant,
		"variable": types.KindVariable,
	}
	register("go", lang, newQueryExtractor("go", query, kinds, []string{"call_expression"}))
}

func setupPython() {
	lang := newLanguage(tree_sitter_python.Language())
	if lang == nil {
		return
	}
	query := buildQuery(lang, `
        (class_definition
            body: (block
                (function_definition name: (identifier) @method.name))) @method
        (function_definition name: (identifier) @function.name) @function
        (class_definition name: (identifier) @class.name) @class
    `)
	kinds := map[string]types.SymbolKind{
		"function": types.KindFunction,
		"method":   types.KindMethod,
		"class":    types.KindClass,
	}
	register("python", lang, newQueryExtractor("python", query, kinds, []string{"call"}))
}

func setupJavaScript() {
	lang := newLanguage(tree_sitter_javascript.Language())
	if lang == nil {
		return
	}
	query := buildQuery(lang, `
        (function_declaration name: (identifier) @function.name) @function
        (generator_function_declaration name: (identifier) @function.name) @function
        (variable_declarator
            name: (identifier) @function.name
            value: [(arrow_function) (function_expression) (generator_function)]) @function
        (method_definition name: (property_identifier) @method.name) @method
        (class_declaration name: (identifier) @class.name) @class
    `)
	kinds := map[string]types.SymbolKind{
		"function": types.KindFunction,
		"method":   types.KindMethod,
		"class":    types.KindClass,
	}
	ext := newQueryExtractor("javascript", query, kinds, []string{"call_expression"})
	register("javascript", lang, ext)
}

func setupTypeScript() {
	lang := newLanguage(tree_sitter_typescript.LanguageTypescript())
	if lang == nil {
		return
	}
	query := buildQuery(lang, `
        (function_declaration name: (identifier) @function.name) @function
        (generator_function_declaration name: (identifier) @function.name) @function
        (method_definition name: (property_identifier) @method.name) @method
        (function_expression name: (identifier) @function.name) @function
        (class_declaration name: (type_identifier) @class.name) @class
        (interface_declaration name: (type_identifier) @interface.name) @interface
        (type_alias_declaration name: (type_identifier) @type.name) @type
        (enum_declaration name: (identifier) @enum.name) @enum
    `)
	kinds := map[string]types.SymbolKind{
		"function":  types.KindFunction,
		"method":    types.KindMethod,
		"class":     types.KindClass,
		"interface": types.KindInterface,
		"type":      types.KindType,
		"enum":      types.KindEnum,
	}
	register("typescript", lang, newQueryExtractor("typescript", query, kinds, []string{"call_expression"}))
}

func setupRust() {
	lang := newLanguage(tree_sitter_rust.Language())
	if lang == nil {
		return
	}
	query := buildQuery(lang, `
        (impl_item
            body: (declaration_list
                (function_item name: (identifier) @method.name))) @method
        (trait_item
            body: (declaration_list
                (function_item name: (identifier) @method.name))) @method
        (function_item name: (identifier) @function.name) @function
        (struct_item name: (type_identifier) @struct.name) @struct
        (enum_item name: (type_identifier) @enum.name) @enum
        (trait_item name: (type_identifier) @interface.name) @interface
        (type_item name: (type_identifier) @type.name) @type
        (mod_item name: (identifier) @module.name) @module
    `)
	kinds := map[string]types.SymbolKind{
		"function":  types.KindFunction,
		"method":    types.KindMethod,
		"struct":    types.KindStruct,
		"enum":      types.KindEnum,
		"interface": types.KindInterface,
		"type":      types.KindType,
		"module":    types.KindModule,
	}
	register("rust", lang, newQueryExtractor("rust", query, kinds, []string{"call_expression"}))
}

func setupJava() {
	lang := newLanguage(tree_sitter_java.Language())
	if lang == nil {
		return
	}
	query := buildQuery(lang, `
        (method_declaration name: (identifier) @method.name) @method
        (constructor_declaration name: (identifier) @constructor.name) @constructor
        (class_declaration name: (identifier) @class.name) @class
        (record_declaration name: (identifier) @class.name) @class
        (interface_declaration name: (identifier) @interface.name) @interface
        (enum_declaration name: (identifier) @enum.name) @enum
        (field_declaration declarator: (variable_declarator name: (identifier) @field.name)) @field
    `)
	kinds := map[string]types.SymbolKind{
		"method":      types.KindMethod,
		"constructor": types.KindConstructor,
		"class":       types.KindClass,
		"interface":   types.KindInterface,
		"enum":        types.KindEnum,
		"field":       types.KindField,
	}
	register("java", lang, newQueryExtractor("java", query, kinds, []string{"method_invocation", "object_creation_expression"}))
}

func setupCSharp() {
	lang := newLanguage(tree_sitter_csharp.Language())
	if lang == nil {
		return
	}
	query := buildQuery(lang, `
        (method_declaration name: (identifier) @method.name) @method
        (constructor_declaration name: (identifier) @constructor.name) @constructor
        (class_declaration name: (identifier) @class.name) @class
        (interface_declaration name: (identifier) @interface.name) @interface
        (struct_declaration name: (identifier) @struct.name) @struct
        (record_declaration name: (identifier) @record.name) @record
        (enum_declaration name: (identifier) @enum.name) @enum
        (property_declaration name: (identifier) @property.name) @property
        (namespace_declaration name: (qualified_name) @namespace.name) @namespace
        (namespace_declaration name: (identifier) @namespace.name) @namespace
    `)
	kinds := map[string]types.SymbolKind{
		"method":      types.KindMethod,
		"constructor": types.KindConstructor,
		"class":       types.KindClass,
		"interface":   types.KindInterface,
		"struct":      types.KindStruct,
		"record":      types.KindClass,
		"enum":        types.KindEnum,
		"property":    types.KindField,
		"namespace":   types.KindNamespace,
	}
	register("csharp", lang, newQueryExtractor("csharp", query, kinds, []string{"invocation_expression", "object_creation_expression"}))
}

func setupCpp() {
	lang := newLanguage(tree_sitter_cpp.Language())
	if lang == nil {
		return
	}
	query := buildQuery(lang, `
        (function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function
        (class_specifier name: (type_identifier) @class.name) @class
        (struct_specifier name: (type_identifier) @struct.name) @struct
        (enum_specifier name: (type_identifier) @enum.name) @enum
    `)
	kinds := map[string]types.SymbolKind{
		"function": types.KindFunction,
		"class":    types.KindClass,
		"struct":   types.KindStruct,
		"enum":     types.KindEnum,
	}
	ext := newQueryExtractor("cpp", query, kinds, []string{"call_expression"})
	register("cpp", lang, ext)
	register("c", lang, ext)
}

func setupPHP() {
	lang := newLanguage(tree_sitter_php.LanguagePHP())
	if lang == nil {
		return
	}
	query := buildQuery(lang, `
        (class_declaration name: (name) @class.name) @class
        (interface_declaration name: (name) @interface.name) @interface
        (trait_declaration name: (name) @trait.name) @trait
        (enum_declaration name: (name) @enum.name) @enum
        (function_definition name: (name) @function.name) @function
        (method_declaration name: (name) @method.name) @method
    `)
	kinds := map[string]types.SymbolKind{
		"class":     types.KindClass,
		"interface": types.KindInterface,
		"trait":     types.KindInterface,
		"enum":      types.KindEnum,
		"function":  types.KindFunction,
		"method":    types.KindMethod,
	}
	register("php", lang, newQueryExtractor("php", query, kinds, []string{"function_call_expression", "member_call_expression"}))
}

func setupZig() {
	lang := newLanguage(tree_sitter_zig.Language())
	if lang == nil {
		return
	}
	query := buildQuery(lang, `
        (function_declaration (identifier) @function.name) @function
        (variable_declaration
          (identifier) @struct.name
          (struct_declaration) @struct)
    `)
	kinds := map[string]types.SymbolKind{
		"function": types.KindFunction,
		"struct":   types.KindStruct,
	}
	register("zig", lang, newQueryExtractor("zig", query, kinds, []string{"call_expression"}))
}

// NoOp is the fallback extractor for languages without a registered
// grammar; it always returns empty results.
type NoOp struct{ lang string }

func (n NoOp) Language() string { return n.lang }
func (NoOp) ExtractSymbols(*tree_sitter.Tree, []byte, string, string) []types.Symbol { return nil }
func (NoOp) ExtractRelationships(*tree_sitter.Tree, []byte, []types.Symbol, string) []types.Relationship {
	return nil
}
func (NoOp) ExtractIdentifiers(*tree_sitter.Tree, []byte, []types.Symbol, string) []types.Identifier {
	return nil
}
