package classify

import (
	"strings"
	"text/template"
)

// ScaffoldSections are the top-level sections of a synthetic scaffold, in
// the order they are written.
var ScaffoldSections = []string{
	"Core Features",
	"Technical Architecture",
	"Frontend Design",
	"Data Management",
	"Deployment",
	"Development",
	"Maintenance",
}

type snippet struct {
	lang    string
	comment string
	text    string
}

func (s snippet) String() string {
	body := s.text
	switch s.comment {
	case "//", "#", "--":
		body = s.comment + " " + body
	case "<!--":
		body = "<!-- " + body + " -->"
	}
	return "```" + s.lang + "\n" + body + "\n```"
}

var backendSnippets = map[string][2]snippet{
	// index 0 is the plain backend, index 1 the API flavour
	BackendNode: {
		{"javascript", "//", "Node.js backend implementation will go here"},
		{"javascript", "//", "Node.js API implementation will go here"},
	},
	BackendPython: {
		{"python", "#", "Python backend implementation will go here"},
		{"python", "#", "Python API implementation will go here"},
	},
	BackendRuby: {
		{"ruby", "#", "Ruby backend implementation will go here"},
		{"ruby", "#", "Ruby API implementation will go here"},
	},
	BackendGo: {
		{"go", "//", "Go backend implementation will go here"},
		{"go", "//", "Go API implementation will go here"},
	},
}

var frontendTypeSnippets = map[string]snippet{
	FrontendReact:   {"typescript", "//", "React types will go here"},
	FrontendVue:     {"typescript", "//", "Vue types will go here"},
	FrontendAngular: {"typescript", "//", "Angular types will go here"},
	FrontendSvelte:  {"typescript", "//", "Svelte types will go here"},
}

var componentSnippets = map[string]snippet{
	FrontendReact:   {"jsx", "//", "React component will go here"},
	FrontendVue:     {"vue", "<!--", "Vue component will go here"},
	FrontendAngular: {"typescript", "//", "Angular component will go here"},
	FrontendSvelte:  {"svelte", "<!--", "Svelte component will go here"},
}

func backendSnippet(p StackProfile) snippet {
	pair, ok := backendSnippets[p.PrimaryBackend()]
	if !ok {
		return snippet{"", "//", "Backend implementation will go here"}
	}
	if p.API {
		return pair[1]
	}
	return pair[0]
}

func schemaSnippet(p StackProfile) snippet {
	switch {
	case p.SQL:
		return snippet{"sql", "--", "SQL schema will go here"}
	case p.NoSQL:
		return snippet{"javascript", "//", "NoSQL schema will go here"}
	default:
		return snippet{"", "//", "Database schema will go here"}
	}
}

const scaffoldTemplate = `# Core Features

## Overview
{{ .Idea }}

## Key Features
{{ if .Stack.Auth }}- User authentication and profiles
{{ end }}{{ if .Stack.API }}- RESTful API endpoints
{{ end }}- Core business logic
- Data persistence
- Error handling
{{ if .Stack.Mobile }}- Mobile app support
{{ end }}{{ if .Stack.Desktop }}- Desktop app support
{{ end }}- Logging and monitoring

# Technical Architecture

## Backend
{{ .Backend }}

## Database Schema
{{ .Schema }}

# Frontend Design

## Main Components
{{ .Types }}

## UI Components
{{ .Component }}

# Data Management

## Storage
{{ if .Stack.SQL }}- SQL database for structured data
{{ end }}{{ if .Stack.NoSQL }}- NoSQL database for flexible data
{{ end }}- File storage for assets
- Cache layer for performance
- Backup strategy

## Security
- Secure authentication
- Data encryption
- Input validation
- Regular security audits

# Deployment

## Requirements
- Version control
- CI/CD pipeline
- Monitoring
- Backup system

## Environment Variables
- Database credentials
- API keys
- Service endpoints
- Feature flags

# Development

## Setup Steps
1. Clone repository
2. Install dependencies
3. Configure environment
4. Set up database
5. Start development server

## Testing
- Unit tests
- Integration tests
- E2E tests
- Performance testing

# Maintenance

## Regular Tasks
- Dependency updates
- Security patches
- Performance monitoring
- User feedback collection

## Monitoring
- Error tracking
- Usage analytics
- Performance metrics
- Security scanning`

var scaffold = template.Must(template.New("scaffold").Parse(scaffoldTemplate))

type scaffoldData struct {
	Idea      string
	Stack     StackProfile
	Backend   string
	Schema    string
	Types     string
	Component string
}

// Scaffold expands a short idea into the seven-section skeleton, with
// placeholder lines and snippets chosen from the detected stack.
func Scaffold(idea string) string {
	idea = strings.TrimSpace(idea)
	stack := DetectStack(idea)
	data := scaffoldData{
		Idea:      idea,
		Stack:     stack,
		Backend:   backendSnippet(stack).String(),
		Schema:    schemaSnippet(stack).String(),
		Types:     frontendTypeSnippets[stack.PrimaryFrontend()].String(),
		Component: componentSnippets[stack.PrimaryFrontend()].String(),
	}
	var out strings.Builder
	if err := scaffold.Execute(&out, data); err != nil {
		panic(err)
	}
	return out.String()
}
