package weatherrouting

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// RoutingLogInit builds the structured logger shared by a RoutingDriver and
// the Router/kernel it drives, named after the leg's algorithm.
func RoutingLogInit(name string) kitlog.Logger {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "router", name)
	return klog
}
