package summarizer

import (
	"encoding/json"
	"fmt"
)

const projectTemplate = `
You are an expert code analyst. I'll provide you with a summary of a codebase, and your task is to:
1. Identify the main purpose of the project
2. Summarize the architecture and key components
3. Highlight potential areas of interest or concern
4. Provide a high-level overview appropriate for technical stakeholders

Here's the codebase summary:
%s

Please provide a concise, informative analysis.
`

const codeTemplate = "\nYou are an expert developer tasked with explaining complex code. I'll provide a code snippet, and your task is to:\n" +
	"1. Explain what this code does in simple terms\n" +
	"2. Identify key functions, variables and their purpose\n" +
	"3. Note any potential issues, bugs, or security concerns\n" +
	"4. Suggest any potential improvements\n\n" +
	"Here's the code:\n```%s\n%s\n```\n\n" +
	"Please provide your expert analysis.\n"

const dataFlowTemplate = `
You are an expert in data engineering and system architecture. Analyze this information about data flows and database connections in a codebase:

%s

Please:
1. Describe the overall data architecture
2. Identify the data sources and sinks
3. Map the flow of data through the system
4. Highlight any potential data security or integrity issues
5. Suggest improvements to the data flow architecture

Provide a comprehensive analysis focused on data lineage.
`

const detectTemplate = "You are a programming language detection expert. Identify the programming language of the given code snippet. " +
	"Respond with only the language name in lowercase.\n\nIdentify the programming language:\n\n```\n%s\n```"

// Explanation subjects for short business-facing explanations.
const (
	SubjectSQL            = "sql"
	SubjectTransformation = "transformation"
	SubjectBusinessRule   = "business_rule"
	SubjectCode           = "code"
)

// ProjectPrompt asks for a project overview from aggregate figures.
func ProjectPrompt(summary any) string {
	return fmt.Sprintf(projectTemplate, indentJSON(summary))
}

// DataFlowPrompt asks for a data lineage analysis.
func DataFlowPrompt(info any) string {
	return fmt.Sprintf(dataFlowTemplate, indentJSON(info))
}

// CodePrompt asks for an explanation of one source file.
func CodePrompt(language, code string) string {
	return fmt.Sprintf(codeTemplate, language, code)
}

// DetectPrompt asks for the language of sample.
func DetectPrompt(sample string) string {
	return fmt.Sprintf(detectTemplate, sample)
}

// ExplainPrompt asks for a plain-language explanation of text.
func ExplainPrompt(subject, text string) string {
	switch subject {
	case SubjectSQL:
		return "Explain this SQL logic in simple terms for business understanding: " + text
	case SubjectTransformation:
		return "Explain this data transformation in simple terms for business understanding: " + text
	case SubjectBusinessRule:
		return "Explain this business rule in simple terms for non-technical stakeholders: " + text
	}
	return "Explain this code logic in simple terms for business understanding: " + text
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
