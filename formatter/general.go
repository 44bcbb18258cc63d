package formatter

// SnippetFormatter renders failures that point at a source position.
type SnippetFormatter struct{}

func (f *SnippetFormatter) DiagnosticTemplate() string {
	return `{{header .Tag .MaxLineNumWidth .Filename .Line .Column -}}
{{snippet .SnippetLines .Line .MaxLineNumWidth .Padding -}}
{{caret .Message .Padding .SnippetLines .Line .Column -}}
{{note .Note .Padding}}`
}

// RuntimeFormatter renders evaluation failures, which have no position.
type RuntimeFormatter struct{}

func (f *RuntimeFormatter) DiagnosticTemplate() string {
	return `{{header .Tag .MaxLineNumWidth .Filename .Line .Column -}}
{{message .Message .Padding -}}
{{note .Note .Padding}}`
}
