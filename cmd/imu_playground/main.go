package main

import (
	"fmt"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"imu_poller/internal/config"
	"imu_poller/internal/iic"
	"imu_poller/internal/sensor/mpu9250"
	"imu_poller/internal/server"
)

var defaultTableValue = [][]string{{"Channel", "X", "Y", "Z"}}

func getTable() *widgets.Table {
	table := widgets.NewTable()
	table.Rows = defaultTableValue
	table.ColumnWidths = []int{16, 16, 16, 16}
	table.TextStyle = ui.NewStyle(ui.ColorWhite)
	table.TextAlignment = ui.AlignRight
	table.SetRect(0, 0, 80, 12)
	return table
}

func updateValue(opt *config.IMUPollOpt, table *widgets.Table) {
	bus, err := iic.Open(opt.Bus.Name)
	if err != nil {
		log.Panicln(err)
	}
	defer func() { _ = bus.Close() }()

	imu := mpu9250.New(bus)
	if err := imu.Init(); err != nil {
		log.Panicln(err)
	}

	table.Rows = append(table.Rows,
		[]string{"Accel (g)", "", "", ""},
		[]string{"Gyro (dps)", "", "", ""},
		[]string{"Temp (C)", "", "", ""},
		[]string{"Mag (uT)", "", "", ""},
	)

	for {
		if md, err := imu.ReadMotion(); err != nil {
			log.Warnln(err)
		} else {
			table.Rows[1] = []string{"Accel (g)",
				fmt.Sprintf("%.3f", md.Accel[0]), fmt.Sprintf("%.3f", md.Accel[1]), fmt.Sprintf("%.3f", md.Accel[2])}
			table.Rows[2] = []string{"Gyro (dps)",
				fmt.Sprintf("%.3f", md.Gyro[0]), fmt.Sprintf("%.3f", md.Gyro[1]), fmt.Sprintf("%.3f", md.Gyro[2])}
			table.Rows[3] = []string{"Temp (C)", fmt.Sprintf("%.2f", md.Temp), "", ""}
		}

		if fd, ok, err := imu.ReadMag(); err != nil {
			log.Warnln(err)
		} else if ok {
			table.Rows[4] = []string{"Mag (uT)",
				fmt.Sprintf("%.2f", fd.Field[0]), fmt.Sprintf("%.2f", fd.Field[1]), fmt.Sprintf("%.2f", fd.Field[2])}
		}

		ui.Render(table)
		time.Sleep(time.Duration(opt.Poll.Interval) * time.Millisecond)
	}
}

func _main(cmd *cobra.Command, args []string) {
	log.Info("Starting")
	if err := ui.Init(); err != nil {
		log.Fatalf("failed to initialize termui: %v", err)
	}
	defer ui.Close()

	t := getTable()
	opt := server.NewMainApp(cmd, args).PrepareRun().GetOpt()
	go updateValue(opt, t)

	uiEvents := ui.PollEvents()
	for {
		e := <-uiEvents
		switch e.ID {
		case "q", "<C-c>":
			return
		}
	}

}

var rootCmd = &cobra.Command{
	Use:   "imu_playground",
	Short: "imu_playground",
	Long:  "imu_playground",
	Run: func(cmd *cobra.Command, args []string) {
		_main(cmd, args)
	},
}

func main() {
	rootCmd.Flags().String("config", "", "default configuration path")
	rootCmd.Flags().StringP("bus", "b", config.DefaultBusName, "I2C bus reference")
	rootCmd.Flags().IntP("interval", "t", config.DefaultInterval, "polling interval in milliseconds")
	rootCmd.Flags().Bool("debug", false, "toggle debug logging")

	err := rootCmd.Execute()
	if err != nil {
		return
	}
}
