package proxy

import "fmt"

// Provider describes one upstream chat-completion deployment. The proxy is
// parameterized by a Provider instead of hard-coding an endpoint, so the same
// handler serves a Chutes-compatible or a Groq-compatible upstream depending
// on deployment configuration.
type Provider struct {
	Name          string
	Endpoint      string
	CredentialEnv string // environment variable holding the API key
	Model         string // pinned server-side, client input is always overwritten
}

func Chutes() Provider {
	return Provider{
		Name:          "chutes",
		Endpoint:      "https://llm.chutes.ai/v1/chat/completions",
		CredentialEnv: "CHUTES_API_TOKEN",
		Model:         "zai-org/GLM-4.5-Air",
	}
}

func Groq() Provider {
	return Provider{
		Name:          "groq",
		Endpoint:      "https://api.groq.com/openai/v1/chat/completions",
		CredentialEnv: "GROQ_API_KEY",
		Model:         "llama3-8b-8192",
	}
}

// ByName resolves the provider selected in configuration.
func ByName(name string) (Provider, error) {
	switch name {
	case "chutes":
		return Chutes(), nil
	case "groq":
		return Groq(), nil
	default:
		return Provider{}, fmt.Errorf("unknown chat provider %q", name)
	}
}
