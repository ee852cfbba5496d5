package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atlanticdynamic/appidrelay/internal/fancy"
)

// String renders the config as a styled tree for CLI display. Secrets are
// shown as presence only, never as values.
func (c *Config) String() string {
	root := fancy.Tree(fancy.RootStyle.Render("appidrelay config " + c.Version))

	server := fancy.Tree(fancy.HeaderStyle.Render("Server"))
	server.Child(fmt.Sprintf("listen: %s", c.Server.Listen))
	server.Child(fmt.Sprintf("mcp path: %s", c.Server.MCPPath))
	server.Child(fmt.Sprintf("health path: %s", c.Server.HealthPath))
	server.Child(fmt.Sprintf("inbound auth: %s", describeSecret(c.Server.InboundAuthToken)))
	root.Child(server)

	upstream := fancy.Tree(fancy.HeaderStyle.Render("Upstream"))
	upstream.Child(fancy.UpstreamText(c.Upstream.BaseURL))
	upstream.Child(fmt.Sprintf("timeout: %s", c.Upstream.Timeout))
	upstream.Child(fmt.Sprintf("auth token: %s", describeSecret(c.Upstream.AuthToken)))
	if len(c.Upstream.Headers) > 0 {
		// Names only: header values may carry credentials.
		names := make([]string, 0, len(c.Upstream.Headers))
		for name := range c.Upstream.Headers {
			names = append(names, name)
		}
		sort.Strings(names)
		upstream.Child(fmt.Sprintf("extra headers: %s", strings.Join(names, ", ")))
	}
	root.Child(upstream)

	logTree := fancy.Tree(fancy.HeaderStyle.Render("Log"))
	logTree.Child(fmt.Sprintf("format: %s", orUnspecified(c.Log.Format.String())))
	logTree.Child(fmt.Sprintf("level: %s", orUnspecified(c.Log.Level.String())))
	logTree.Child(fmt.Sprintf("output: %s", orUnspecified(c.Log.Output)))
	root.Child(logTree)

	return root.String()
}

func describeSecret(token string) string {
	if token == "" {
		return "unset"
	}
	return fmt.Sprintf("set (%d chars)", len(token))
}

func orUnspecified(v string) string {
	if v == "" {
		return "(default)"
	}
	return v
}
