package cli

import (
	"fmt"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/config"
	"github.com/spf13/pflag"
)

// durationValue is a pflag.Value accepting "14d" as well as Go durations.
type durationValue time.Duration

var _ pflag.Value = (*durationValue)(nil)

func newDurationValue(def time.Duration, p *time.Duration) *durationValue {
	*p = def
	return (*durationValue)(p)
}

func (d *durationValue) Set(s string) error {
	v, err := config.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = durationValue(v)
	return nil
}

func (d *durationValue) Type() string { return "duration" }

func (d *durationValue) String() string {
	v := time.Duration(*d)
	if v%(24*time.Hour) == 0 && v != 0 {
		return fmt.Sprintf("%dd", v/(24*time.Hour))
	}
	return v.String()
}
