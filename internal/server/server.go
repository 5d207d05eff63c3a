package server

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"imu_poller/internal/config"
	"imu_poller/internal/iic"
	"imu_poller/internal/poller"
	"imu_poller/internal/sensor/mpu9250"
	"imu_poller/pkg/version"
)

type mainApp struct {
	name string
	cmd  *cobra.Command
	args []string
	opt  *config.IMUPollOpt
}

func (a *mainApp) GetOpt() *config.IMUPollOpt {
	return a.opt
}

func (a *mainApp) SetOpt(opt *config.IMUPollOpt) { a.opt = opt }

// ProbeSensor opens the bus and reports the identity registers of both
// devices without claiming them for acquisition.
func (a *mainApp) ProbeSensor() error {
	bus, err := iic.Open(a.opt.Bus.Name)
	if err != nil {
		log.Errorln(err)
		return err
	}
	defer func() { _ = bus.Close() }()

	log.Infoln("Probing IMU devices...")

	var who [1]byte
	if err := iic.ReadRegisters(bus, mpu9250.MPUAddr, mpu9250.RegWhoAmI, who[:]); err != nil {
		log.Warnln("MPU not responding:", err)
	} else {
		fmt.Printf("- MPU at 0x%02X, WHO_AM_I = 0x%02X\n", mpu9250.MPUAddr, who[0])
	}
	if err := iic.ReadRegisters(bus, mpu9250.MagAddr, mpu9250.RegMagWIA, who[:]); err != nil {
		log.Warnln("AK8963 not responding (bypass mode may be disabled):", err)
	} else {
		fmt.Printf("- AK8963 at 0x%02X, WIA = 0x%02X\n", mpu9250.MagAddr, who[0])
	}
	return nil
}

func (a *mainApp) Run() {
	log.Infoln("version:", version.GitVersion)
	log.Infoln("bus.name:", a.opt.Bus.Name)
	log.Infoln("poll.interval:", a.opt.Poll.Interval)
	log.Infoln("debug:", a.opt.Debug)

	bus, err := iic.Open(a.opt.Bus.Name)
	if err != nil {
		// The one fatal error class: without a bus there is nothing to poll.
		log.Errorln("bus open failed:", err)
		return
	}
	defer func() { _ = bus.Close() }()

	imu := mpu9250.New(bus)
	p := poller.New(imu, os.Stdout, time.Duration(a.opt.Poll.Interval)*time.Millisecond)
	if err := p.Run(context.Background()); err != nil {
		log.Errorln(err)
	}
}

func (a *mainApp) PrepareRun() MainApp {
	desc := config.NewIMUPollDesc()
	err := desc.Parse(a.cmd)
	if err != nil {
		log.Errorln(err)
		os.Exit(1)
		return nil
	}
	desc.PostParse()
	a.opt = &desc.Opt
	a.name = config.DefaultAppName

	return a
}

type MainApp interface {
	Run()
	PrepareRun() MainApp
	GetOpt() *config.IMUPollOpt
	SetOpt(*config.IMUPollOpt)
	ProbeSensor() error
}

func NewMainApp(cmd *cobra.Command, args []string) MainApp {
	return &mainApp{
		cmd:  cmd,
		args: args,
	}
}
