// Package poller runs the sequential acquisition loop: one motion line and,
// when a fresh sample exists, one magnetometer line per cycle.
package poller

import (
	"context"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	sensor2 "imu_poller/internal/sensor"
)

type Poller struct {
	sensor   sensor2.Sensor
	out      io.Writer
	interval time.Duration
}

func New(s sensor2.Sensor, out io.Writer, interval time.Duration) *Poller {
	return &Poller{
		sensor:   s,
		out:      out,
		interval: interval,
	}
}

// Run initializes the sensor once and then polls it until the context is
// canceled. All read failures are logged and the cycle continues; nothing
// is retried within a cycle.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.sensor.Init(); err != nil {
		log.Errorln("sensor init:", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.Cycle()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Cycle performs one acquisition pass.
func (p *Poller) Cycle() {
	if md, err := p.sensor.ReadMotion(); err != nil {
		log.Errorln("motion read:", err)
	} else {
		fmt.Fprintf(p.out, "Accel (g): %.3f, %.3f, %.3f | Temp %.2f C | Gyro (dps): %.3f %.3f %.3f\n",
			md.Accel[0], md.Accel[1], md.Accel[2], md.Temp, md.Gyro[0], md.Gyro[1], md.Gyro[2])
	}

	if fd, ok, err := p.sensor.ReadMag(); err != nil {
		log.Errorln("magnetometer read:", err)
	} else if ok {
		fmt.Fprintf(p.out, "Mag (uT): %.2f, %.2f, %.2f\n",
			fd.Field[0], fd.Field[1], fd.Field[2])
	}
}
