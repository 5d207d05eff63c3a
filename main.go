package main

import "imu_poller/internal/cmd"

func main() {
	cmd.Execute()
}
