package ascent

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// PhaseLogInit initializes the logger used by a single phase of a
// Simulate run, grounded on the teacher's SCLogInit.
func PhaseLogInit(vehicleName string) kitlog.Logger {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "vehicle", vehicleName)
	return klog
}
