package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dm/esadvisor/internal/client"
)

// parseESURI parses an Elasticsearch URI and returns the base URL (without credentials,
// query or fragment), username, and password. Returns an error if the URI is invalid,
// has an unsupported scheme or an out-of-range port.
func parseESURI(esURI string) (baseURL, username, password string, err error) {
	u, err := url.Parse(esURI)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid URI %q: %w", esURI, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", "", fmt.Errorf("unsupported scheme %q (must be http or https)", u.Scheme)
	}

	if u.Hostname() == "" {
		return "", "", "", fmt.Errorf("invalid URI %q: host is required", esURI)
	}

	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return "", "", "", fmt.Errorf("invalid URI %q: port must be 1-65535", esURI)
		}
	}

	if u.User != nil {
		username = u.User.Username()
		password, _ = u.User.Password()
		u.User = nil
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""

	return u.String(), username, password, nil
}

// resolveCredentials picks each of user and password independently, with a
// non-empty flag winning over the environment and the environment over the URI.
func resolveCredentials(uriUser, uriPass, envUser, envPass, flagUser, flagPass string) (user, pass string) {
	return firstNonEmpty(flagUser, envUser, uriUser), firstNonEmpty(flagPass, envPass, uriPass)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// addConnectionFlags registers the flags shared by commands that talk to a
// single cluster given on the command line.
func addConnectionFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("insecure", false, "skip TLS certificate verification")
	cmd.Flags().Duration("timeout", 10*time.Second, "per-request timeout")
	cmd.Flags().String("user", "", "username (overrides ES_USER and the URI)")
	cmd.Flags().String("password", "", "password (overrides ES_PASSWORD and the URI)")
}

// clientFromFlags builds a client for the URI given on the command line.
func clientFromFlags(cmd *cobra.Command, esURI string) (*client.DefaultClient, error) {
	insecure, _ := cmd.Flags().GetBool("insecure")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	flagUser, _ := cmd.Flags().GetString("user")
	flagPass, _ := cmd.Flags().GetString("password")

	if timeout <= 0 {
		return nil, fmt.Errorf("--timeout must be positive")
	}

	baseURL, uriUser, uriPass, err := parseESURI(esURI)
	if err != nil {
		return nil, err
	}
	user, pass := resolveCredentials(uriUser, uriPass, os.Getenv("ES_USER"), os.Getenv("ES_PASSWORD"), flagUser, flagPass)

	return client.NewDefaultClient(client.ClientConfig{
		BaseURL:            baseURL,
		Username:           user,
		Password:           pass,
		InsecureSkipVerify: insecure,
		RequestTimeout:     timeout,
	})
}
