// Package scanner walks every IPv4 address of a device's subnet and probes
// each one in turn.
//
// The scan is strictly sequential: one probe is in flight at any time and
// handlers are called synchronously in ascending address order. The local
// address and the broadcast address of the device are reported up without
// being probed.
//
// Example usage:
//
//	dev, err := common.FindLiveDevice(ctx, "")
//	if err != nil {
//		return err
//	}
//	s, err := scanner.New(dev, &scanner.Options{Kind: probe.KindConnect, Port: 80})
//	if err != nil {
//		return err
//	}
//	err = s.Run(ctx, scanner.Handlers{
//		OnUp: func(h scanner.Host) { fmt.Println(h.Addr) },
//	})
//
// Cancelling ctx stops the scan after the probe in flight returns.
package scanner
