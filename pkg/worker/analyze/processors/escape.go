package processors

import (
	"os"
	"strings"
)

// escapeText hides every known secret in text. Error messages pass
// through here before they are persisted on a job: tokens leak into
// git and provider error output easily.
func escapeText(text string, secretableCtx secretable) string {
	secrets := buildSecrets(secretableCtx.secrets()...)

	ret := text
	for secret, replacement := range secrets {
		ret = strings.Replace(ret, secret, replacement, -1)
	}

	return ret
}

type secretable interface {
	secrets() []string
}

func buildSecrets(vars ...string) map[string]string {
	const minSecretValueLen = 6

	const hidden = "{hidden}"
	ret := map[string]string{}
	for _, v := range vars {
		if len(v) >= minSecretValueLen {
			ret[v] = hidden
		}
	}

	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}

		k := parts[0]
		if k == "APP_NAME" ||
			k == "WEB_ROOT" ||
			k == "HOST_CLONE_BASE_PATH" ||
			k == "SANDBOX_IMAGE" ||
			k == "TOOLCHAIN_VOLUME" ||
			k == "GEMINI_MODEL" ||
			k == "GOROOT" ||
			k == "GOPATH" {
			// not secret
			continue
		}

		v := parts[1]
		if len(v) >= minSecretValueLen {
			ret[v] = hidden
		}
	}

	return ret
}
