package classify

import "regexp"

// Frontend and backend framework identifiers used to pick scaffold snippets.
const (
	FrontendReact   = "react"
	FrontendVue     = "vue"
	FrontendAngular = "angular"
	FrontendSvelte  = "svelte"

	BackendNode   = "node"
	BackendPython = "python"
	BackendRuby   = "ruby"
	BackendGo     = "go"
)

// StackProfile records which technologies the text appears to mention.
type StackProfile struct {
	React   bool
	Vue     bool
	Angular bool
	Svelte  bool

	Node   bool
	Python bool
	Ruby   bool
	Go     bool

	SQL   bool
	NoSQL bool

	Auth    bool
	API     bool
	Mobile  bool
	Desktop bool
}

type stackRule struct {
	pattern *regexp.Regexp
	set     func(*StackProfile)
}

func keyword(words string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(` + words + `)\b`)
}

var stackRules = []stackRule{
	{keyword(`react|nextjs|gatsby`), func(p *StackProfile) { p.React = true }},
	{keyword(`vue|nuxt`), func(p *StackProfile) { p.Vue = true }},
	{keyword(`angular|ng`), func(p *StackProfile) { p.Angular = true }},
	{keyword(`svelte|sveltekit`), func(p *StackProfile) { p.Svelte = true }},

	{keyword(`node|express|nestjs`), func(p *StackProfile) { p.Node = true }},
	{keyword(`python|django|flask|fastapi`), func(p *StackProfile) { p.Python = true }},
	{keyword(`ruby|rails`), func(p *StackProfile) { p.Ruby = true }},
	{keyword(`go|golang|gin|echo`), func(p *StackProfile) { p.Go = true }},

	{keyword(`sql|postgres|mysql|sqlite`), func(p *StackProfile) { p.SQL = true }},
	{keyword(`mongo|redis|dynamodb`), func(p *StackProfile) { p.NoSQL = true }},

	{keyword(`auth|login|user|account`), func(p *StackProfile) { p.Auth = true }},
	{keyword(`api|rest|graphql`), func(p *StackProfile) { p.API = true }},
	{keyword(`mobile|ios|android|react native`), func(p *StackProfile) { p.Mobile = true }},
	{keyword(`desktop|electron|tauri`), func(p *StackProfile) { p.Desktop = true }},
}

// DetectStack keyword-matches text against the known technology categories.
func DetectStack(text string) StackProfile {
	var profile StackProfile
	for _, rule := range stackRules {
		if rule.pattern.MatchString(text) {
			rule.set(&profile)
		}
	}
	return profile
}

// PrimaryFrontend returns the framework scaffold snippets are written for.
// React is assumed when nothing else is mentioned; later entries win.
func (p StackProfile) PrimaryFrontend() string {
	primary := FrontendReact
	if p.Vue {
		primary = FrontendVue
	}
	if p.Angular {
		primary = FrontendAngular
	}
	if p.Svelte {
		primary = FrontendSvelte
	}
	return primary
}

// PrimaryBackend returns the backend scaffold snippets are written for.
// Node is assumed when nothing else is mentioned; later entries win.
func (p StackProfile) PrimaryBackend() string {
	primary := BackendNode
	if p.Python {
		primary = BackendPython
	}
	if p.Ruby {
		primary = BackendRuby
	}
	if p.Go {
		primary = BackendGo
	}
	return primary
}
