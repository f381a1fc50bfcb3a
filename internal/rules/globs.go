package rules

import "strings"

// Category names a row of the glob table.
type Category string

const (
	CategoryFrontend     Category = "frontend"
	CategoryArchitecture Category = "technical-architecture"
	CategoryData         Category = "data-management"
	CategoryDeployment   Category = "deployment"
	CategoryDevelopment  Category = "development"
	CategoryMaintenance  Category = "maintenance"
	CategoryCore         Category = "core-features"
	CategoryDefault      Category = "default"
)

// globRule assigns globs when the file name contains one of nameCues or the
// lowercased content contains one of contentCues.
type globRule struct {
	category    Category
	nameCues    []string
	contentCues []string
	globs       []string
}

func (r globRule) matches(name, content string) bool {
	for _, cue := range r.nameCues {
		if strings.Contains(name, cue) {
			return true
		}
	}
	for _, cue := range r.contentCues {
		if strings.Contains(content, cue) {
			return true
		}
	}
	return false
}

var globTable = []globRule{
	{
		category:    CategoryFrontend,
		nameCues:    []string{"frontend"},
		contentCues: []string{"frontend", "react", "vue"},
		globs: []string{
			"src/components/**/*.{tsx,jsx}",
			"src/pages/**/*.{tsx,jsx}",
			"src/hooks/**/*.ts",
			"src/styles/**/*.{css,scss}",
			"src/types/**/*.ts",
		},
	},
	{
		category:    CategoryArchitecture,
		nameCues:    []string{"technical-architecture"},
		contentCues: []string{"backend", "api"},
		globs: []string{
			"src/api/**/*.ts",
			"src/services/**/*.ts",
			"src/middleware/**/*.ts",
			"src/config/**/*.ts",
			"src/types/**/*.ts",
		},
	},
	{
		category:    CategoryData,
		nameCues:    []string{"data-management"},
		contentCues: []string{"database", "schema"},
		globs: []string{
			"src/models/**/*.ts",
			"src/db/**/*.ts",
			"prisma/**/*.prisma",
			"migrations/**/*.sql",
			"src/types/**/*.ts",
		},
	},
	{
		category: CategoryDeployment,
		nameCues: []string{"deployment"},
		globs: []string{
			"Dockerfile",
			"docker-compose*.yml",
			".env*",
			"scripts/deploy/**/*",
			"config/**/*.{json,yaml,yml}",
		},
	},
	{
		category: CategoryDevelopment,
		nameCues: []string{"development"},
		globs: []string{
			"package.json",
			"tsconfig.json",
			".env*",
			"scripts/**/*",
			"tests/**/*.{ts,tsx}",
		},
	},
	{
		category: CategoryMaintenance,
		nameCues: []string{"maintenance"},
		globs: []string{
			"scripts/backup/**/*",
			"scripts/monitor/**/*",
			"logs/**/*",
			"config/**/*.{json,yaml,yml}",
			".github/**/*",
		},
	},
	{
		category: CategoryCore,
		nameCues: []string{"core-features"},
		globs: []string{
			"src/**/*.{ts,tsx}",
			"docs/**/*.md",
			"README.md",
			"CONTRIBUTING.md",
			"CHANGELOG.md",
		},
	},
}

var defaultGlobs = []string{
	"src/**/*.{ts,tsx,js,jsx}",
	"docs/**/*.md",
	"**/*.{yaml,yml,json}",
}

// InferGlobs picks the applicability patterns for a rule from its base file
// name and raw content. The result is never empty.
func InferGlobs(name, content string) (Category, []string) {
	lower := strings.ToLower(content)
	for _, rule := range globTable {
		if rule.matches(name, lower) {
			return rule.category, append([]string(nil), rule.globs...)
		}
	}
	return CategoryDefault, append([]string(nil), defaultGlobs...)
}

// GlobsFor returns the table row for a category.
func GlobsFor(category Category) []string {
	for _, rule := range globTable {
		if rule.category == category {
			return append([]string(nil), rule.globs...)
		}
	}
	return append([]string(nil), defaultGlobs...)
}
