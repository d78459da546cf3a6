package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/photonforge/lattice/config"
	"github.com/photonforge/lattice/internal/logger"
	"github.com/photonforge/lattice/pkg/api/client"
)

// flag names
const (
	flagHost    = "host"
	flagPort    = "port"
	flagToken   = "token"
	flagSSL     = "ssl"
	flagVerbose = "verbose"
)

var (
	// conn is the shared platform client. Tests swap it for a mock.
	conn client.Client

	hostFlag    string
	portFlag    int
	tokenFlag   string
	sslFlag     bool
	verboseFlag bool
)

func init() {
	RootCmd.PersistentFlags().StringVar(&hostFlag, flagHost, "", "Platform host (env: LATTICE_API_HOST)")
	RootCmd.PersistentFlags().IntVar(&portFlag, flagPort, 0, "Platform port (env: LATTICE_API_PORT)")
	RootCmd.PersistentFlags().StringVar(&tokenFlag, flagToken, "", "Platform API token (env: LATTICE_API_TOKEN)")
	RootCmd.PersistentFlags().BoolVar(&sslFlag, flagSSL, true, "Use HTTPS to reach the platform (env: LATTICE_API_USE_SSL)")
	RootCmd.PersistentFlags().BoolVarP(&verboseFlag, flagVerbose, "v", false, "Enable debug logging")

	RootCmd.AddCommand(GetPingCmd())
	RootCmd.AddCommand(GetRunCmd())
	RootCmd.AddCommand(GetJobsCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice CLI - a command line interface for the Lattice platform",
	Long: `Lattice CLI submits photonic circuit programs to the Lattice platform
and tracks the jobs they run as.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if verboseFlag {
			logger.SetLevel(logrus.DebugLevel)
		}

		// A preinstalled client wins; tests swap in a mock before
		// executing a command.
		if conn != nil {
			return nil
		}

		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		return initClient(cfg)
	},
}

// resolveConfig loads the configuration and layers changed command
// line flags on top. Flags beat the config file and the environment.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed(flagHost) {
		cfg.Host = hostFlag
	}
	if cmd.Flags().Changed(flagPort) {
		cfg.Port = portFlag
	}
	if cmd.Flags().Changed(flagToken) {
		cfg.Token = tokenFlag
	}
	if cmd.Flags().Changed(flagSSL) {
		cfg.UseSSL = sslFlag
	}
	return cfg, nil
}

// initClient initializes the shared platform client
func initClient(cfg *config.Config) error {
	opts := client.DefaultOptions()
	opts.Token = cfg.Token
	opts.Host = cfg.Host
	opts.Port = cfg.Port
	opts.UseSSL = cfg.UseSSL

	c, err := client.NewConnection(opts)
	if err != nil {
		return fmt.Errorf("error initializing platform client: %w", err)
	}
	conn = c
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
