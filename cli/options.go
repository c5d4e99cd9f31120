package cli

import (
	"errors"
	"reflect"

	"github.com/alecthomas/kong"

	"go.hackfix.me/cymig/xtime"
)

// DurationMapper parses duration CLI values, supporting the extended units of
// xtime.ParseDuration.
type DurationMapper struct{}

var _ kong.Mapper = (*DurationMapper)(nil)

// Decode implements the kong.Mapper interface.
func (dm DurationMapper) Decode(kctx *kong.DecodeContext, target reflect.Value) error {
	var value string
	err := kctx.Scan.PopValueInto("duration", &value)
	if err != nil {
		return err
	}

	dur, err := xtime.ParseDuration(value)
	if err != nil {
		return err
	}
	if dur < 0 {
		return errors.New("duration must be positive")
	}

	target.Set(reflect.ValueOf(dur))

	return nil
}
