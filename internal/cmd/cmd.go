package cmd

import (
	"github.com/spf13/cobra"

	"imu_poller/internal/config"
	"imu_poller/internal/server"
)

var RootCmd = &cobra.Command{
	Use:   "imupoll",
	Short: "MPU-9250 telemetry poller",
	Long:  "MPU-9250 telemetry poller",
}

func RunCmdRunE(cmd *cobra.Command, args []string) error {
	server.NewMainApp(cmd, args).PrepareRun().Run()
	return nil
}

func RunCmdFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "default configuration path")
	cmd.Flags().StringP("bus", "b", config.DefaultBusName, "I2C bus reference, empty for the first available bus")
	cmd.Flags().IntP("interval", "t", config.DefaultInterval, "polling interval in milliseconds")
	cmd.Flags().Bool("debug", false, "toggle debug logging")
}

var RunCmd = &cobra.Command{
	Use: "run",
	SuggestFor: []string{
		"ru", "star",
	},
	Short: "run starts polling the IMU using predefined configs.",
	Long: `run starts polling the IMU using predefined configs, by the following order:
1. path specified in --config flag
2. path defined in IMUPOLL_CONFIG environment variable
3. default location $HOME/.config/imupoll/config.yaml, /etc/imupoll/config.yaml, current directory
The parameters in the configuration file will be overwritten by the following order:
1. command line arguments
2. environment variables
`,
	Example: `  imupoll run --config=/path/to/config`,
	RunE:    RunCmdRunE,
}

func InitCmdFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("print", false, "print config to stdout")
	cmd.Flags().BoolP("yes", "y", false, "overwrite")
	cmd.Flags().StringP("output", "o", config.DefaultConfig, "specify output directory")
}

var InitCmd = &cobra.Command{
	Use: "init",
	SuggestFor: []string{
		"ini", "in",
	},
	Short: "init create a configuration template",
	Long: `init create a configuration template.
If --print flag is present, the configuration will be printed to stdout.
If --output / -o flag is present, the configuration will be saved to the path specified
Otherwise init will output configuration file to $HOME/.config/imupoll/config.yaml
If --yes / -y flag is present, the configuration will be overwrite without confirmation
`,
	Example: `  imupoll init --print
  imupoll init -o /path/to/config.yaml -y`,
	RunE: config.InitCfg,
}

var ProbeCmd = &cobra.Command{
	Use: "probe",
	SuggestFor: []string{
		"pro", "pr", "prob",
	},
	Short: "probe the IMU devices on the bus",
	Long: `probe the IMU devices on the bus.
The probe command reads the identity registers of the MPU and the AK8963
magnetometer and prints the result to stdout.
Warning: the magnetometer only answers once bypass mode has been enabled.
`,
	Example: `  imupoll probe`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = server.NewMainApp(cmd, args).PrepareRun().ProbeSensor()
	},
}

func getRootCmd() *cobra.Command {

	RunCmdFlags(RunCmd)
	RootCmd.AddCommand(RunCmd)

	InitCmdFlags(InitCmd)
	RootCmd.AddCommand(InitCmd)

	RunCmdFlags(ProbeCmd)
	RootCmd.AddCommand(ProbeCmd)

	return RootCmd
}

func Execute() {
	rootCmd := getRootCmd()
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
