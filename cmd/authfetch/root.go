package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/deploymenttheory/go-api-auth-interceptor/authclient"
	"github.com/deploymenttheory/go-api-auth-interceptor/credentialstore"
	"github.com/deploymenttheory/go-api-auth-interceptor/navigation"
	"github.com/deploymenttheory/go-api-auth-interceptor/version"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	ConfigPath  string
	APIBaseURL  string
	RedisAddr   string
	RedisPrefix string
	Token       string
	Role        string
	LogLevel    string
}

// session is what every subcommand works with: a built client plus the resources to release.
type session struct {
	client *authclient.Client
	close  func() error
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "authfetch",
		Short:        "Session-aware HTTP client",
		Long:         "Sends requests through the auth interceptor: attaches the stored session token, refreshes it once on 401 and reports where the user would be sent to log in.",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "Path to a JSON client configuration. Without it the AUTH_* environment variables are used.")
	flags.StringVar(&opts.APIBaseURL, "api-base-url", "", "Base URL of the protected API. Overrides the configuration.")
	flags.StringVar(&opts.RedisAddr, "redis-addr", "", "Redis address for the session store. The session is kept in memory when empty.")
	flags.StringVar(&opts.RedisPrefix, "redis-prefix", credentialstore.DefaultRedisPrefix, "Key prefix for the Redis session store.")
	flags.StringVar(&opts.Token, "token", "", "Session token to store before running the command.")
	flags.StringVar(&opts.Role, "role", "", "Session role to store together with --token.")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level, e.g. LogLevelDebug. Overrides the configuration.")

	rootCmd.AddCommand(
		newFetchCommand(opts),
		newProtectCommand(opts),
		newLogoutCommand(opts),
		newVersionCommand(),
	)
	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of authfetch",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("%s %s\n", version.GetAppName(), version.GetVersion())
		},
	}
}

func newFetchCommand(root *rootOptions) *cobra.Command {
	var method, data string
	var headerValues []string

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Send one request through the interceptor and print the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			header, err := parseHeaders(headerValues)
			if err != nil {
				return err
			}

			s, err := openSession(cmd, root)
			if err != nil {
				return err
			}
			defer s.close()

			requestOpts := &authclient.RequestOptions{Method: strings.ToUpper(method), Header: header}
			if data != "" {
				requestOpts.Body = []byte(data)
			}

			resp, err := s.client.Fetch(cmd.Context(), authclient.RawTarget(args[0]), requestOpts)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", args[0], err)
			}
			defer resp.Body.Close()

			cmd.Printf("%s %s\n", resp.Proto, resp.Status)
			if _, err := io.Copy(cmd.OutOrStdout(), resp.Body); err != nil {
				return fmt.Errorf("read response body: %w", err)
			}
			cmd.Println()
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method.")
	cmd.Flags().StringVarP(&data, "data", "d", "", "Request body.")
	cmd.Flags().StringArrayVarP(&headerValues, "header", "H", nil, `Request header as "Name: value". Repeatable.`)
	return cmd
}

func newProtectCommand(root *rootOptions) *cobra.Command {
	var requiredRole string

	cmd := &cobra.Command{
		Use:   "protect",
		Short: "Check whether the stored session may open a page requiring a role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, root)
			if err != nil {
				return err
			}
			defer s.close()

			if s.client.ProtectPage(cmd.Context(), requiredRole) {
				cmd.Println("access granted")
				return nil
			}
			cmd.Println("access denied")
			return nil
		},
	}

	cmd.Flags().StringVar(&requiredRole, "require-role", "", "Role the page requires. Empty accepts any logged in session.")
	return cmd
}

func newLogoutCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session on the backend and clear it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, root)
			if err != nil {
				return err
			}
			defer s.close()

			s.client.Logout(cmd.Context())
			cmd.Println("logged out")
			return nil
		},
	}
}

// openSession loads the configuration, selects the storage backend and builds the client.
func openSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	config, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	closeFn := func() error { return nil }
	if opts.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		if err := rdb.Ping(cmd.Context()).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", opts.RedisAddr, err)
		}
		config.Storage = credentialstore.NewRedisStorage(rdb, opts.RedisPrefix)
		closeFn = rdb.Close
	}

	out := cmd.OutOrStdout()
	config.Navigator = navigation.Func(func(location string) {
		fmt.Fprintf(out, "navigate: %s\n", location)
	})

	client, err := authclient.BuildClient(*config, true)
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	if opts.Token != "" {
		client.Store().SetSession(cmd.Context(), opts.Token, opts.Role)
	}
	return &session{client: client, close: closeFn}, nil
}

func loadConfig(opts *rootOptions) (*authclient.ClientConfig, error) {
	var (
		config *authclient.ClientConfig
		err    error
	)
	if opts.ConfigPath != "" {
		config, err = authclient.LoadConfigFromFile(opts.ConfigPath)
	} else {
		config, err = authclient.LoadConfigFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if opts.APIBaseURL != "" {
		config.APIBaseURL = opts.APIBaseURL
		config.PageOrigin = ""
	}
	if opts.LogLevel != "" {
		config.LogLevel = opts.LogLevel
	}
	return config, nil
}

// parseHeaders turns "Name: value" flags into a header.
func parseHeaders(values []string) (http.Header, error) {
	header := http.Header{}
	for _, value := range values {
		name, v, ok := strings.Cut(value, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", value)
		}
		header.Add(strings.TrimSpace(name), strings.TrimSpace(v))
	}
	return header, nil
}
