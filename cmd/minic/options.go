package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// opt is a single command-line option that can also come from the
// environment as MINIC_<FLAG>.
type opt struct {
	DestP   interface{} // pointer to the destination
	Flag    string
	Default interface{}
	Desc    string
}

func configureEnv(v *viper.Viper, prefix string) {
	v.SetEnvPrefix(strings.ToUpper(prefix))
	v.AutomaticEnv()
	// This normalizes "-" to an underscore in env names.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// bindOptions registers opts on fs and with v. Destinations receive the
// environment value now; flags parsed later override it.
func bindOptions(v *viper.Viper, fs *pflag.FlagSet, opts []opt) error {
	for _, o := range opts {
		switch destP := o.DestP.(type) {
		case *string:
			var d string
			if o.Default != nil {
				d = o.Default.(string)
			}
			fs.StringVar(destP, o.Flag, d, o.Desc)
			if err := v.BindPFlag(o.Flag, fs.Lookup(o.Flag)); err != nil {
				return err
			}
			*destP = v.GetString(o.Flag)
		case *int:
			var d int
			if o.Default != nil {
				d = o.Default.(int)
			}
			fs.IntVar(destP, o.Flag, d, o.Desc)
			if err := v.BindPFlag(o.Flag, fs.Lookup(o.Flag)); err != nil {
				return err
			}
			*destP = v.GetInt(o.Flag)
		case *zapcore.Level:
			var d zapcore.Level
			if o.Default != nil {
				d = o.Default.(zapcore.Level)
			}
			levelVar(fs, destP, o.Flag, d, o.Desc)
			if err := v.BindPFlag(o.Flag, fs.Lookup(o.Flag)); err != nil {
				return err
			}
			if err := (*levelValue)(destP).Set(v.GetString(o.Flag)); err != nil {
				return fmt.Errorf("%s: %w", o.Flag, err)
			}
		default:
			panic(fmt.Errorf("unknown destination type %T", o.DestP))
		}
	}
	return nil
}

type levelValue zapcore.Level

func (l *levelValue) String() string {
	return zapcore.Level(*l).String()
}

func (l *levelValue) Set(s string) error {
	var level zapcore.Level
	if err := level.Set(s); err != nil {
		return fmt.Errorf("unknown log level; supported levels are debug, info, warn, error")
	}
	*l = levelValue(level)
	return nil
}

func (l *levelValue) Type() string {
	return "Log-Level"
}

// levelVar defines a zapcore.Level flag with the given default.
func levelVar(fs *pflag.FlagSet, p *zapcore.Level, name string, value zapcore.Level, usage string) {
	*p = value
	fs.Var((*levelValue)(p), name, usage)
}
