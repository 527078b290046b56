package xmain

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"oss.terrastruct.com/cmdlog"
	"oss.terrastruct.com/xos"
)

// Opts registers flags whose defaults can be overridden through environment variables.
// Flags given on the command line win over the environment.
type Opts struct {
	Args  []string
	Flags *pflag.FlagSet

	env  *xos.Env
	log  *cmdlog.Logger
	envs []string
}

func NewOpts(env *xos.Env, log *cmdlog.Logger, args []string) *Opts {
	fs := pflag.NewFlagSet("", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)
	return &Opts{
		Args:  args,
		Flags: fs,
		env:   env,
		log:   log,
	}
}

// Help renders the flag defaults followed by the environment variables read.
func (o *Opts) Help() string {
	var sb strings.Builder
	o.Flags.SetOutput(&sb)
	o.Flags.PrintDefaults()
	o.Flags.SetOutput(io.Discard)

	if len(o.envs) == 0 {
		return sb.String()
	}
	sb.WriteString("\nEnvironment variables set the defaults of their flags:\n")
	lines := make([]string, 0, len(o.envs))
	for _, k := range o.envs {
		lines = append(lines, "- $"+k)
	}
	sb.WriteString(strings.Join(lines, "\n"))
	return sb.String()
}

// lookup registers k and returns its value. An empty key reads nothing.
func (o *Opts) lookup(k string) (string, bool) {
	if k == "" {
		return "", false
	}
	o.envs = append(o.envs, k)
	v := o.env.Getenv(k)
	if v == "" {
		return "", false
	}
	o.log.Debug.Printf("using $%s=%s", k, v)
	return v, true
}

func envDefault[T any](o *Opts, k, typ string, def T, parse func(string) (T, error)) (T, error) {
	s, ok := o.lookup(k)
	if !ok {
		return def, nil
	}
	v, err := parse(s)
	if err != nil {
		return def, fmt.Errorf(`invalid environment variable %s. Expected %s. Found "%s".`, k, typ, s)
	}
	return v, nil
}

func (o *Opts) Int64(envKey, flag, shortFlag string, def int64, usage string) (*int64, error) {
	def, err := envDefault(o, envKey, "int64", def, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
	if err != nil {
		return nil, err
	}
	return o.Flags.Int64P(flag, shortFlag, def, usage), nil
}

func (o *Opts) Float64(envKey, flag, shortFlag string, def float64, usage string) (*float64, error) {
	def, err := envDefault(o, envKey, "float64", def, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
	if err != nil {
		return nil, err
	}
	return o.Flags.Float64P(flag, shortFlag, def, usage), nil
}

func (o *Opts) String(envKey, flag, shortFlag string, def, usage string) *string {
	if s, ok := o.lookup(envKey); ok {
		def = s
	}
	return o.Flags.StringP(flag, shortFlag, def, usage)
}

// Bool accepts 1, true, 0 and false from the environment.
func (o *Opts) Bool(envKey, flag, shortFlag string, def bool, usage string) (*bool, error) {
	def, err := envDefault(o, envKey, "bool", def, parseEnvBool)
	if err != nil {
		return nil, err
	}
	return o.Flags.BoolP(flag, shortFlag, def, usage), nil
}

func parseEnvBool(s string) (bool, error) {
	switch s {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("not a bool: %q", s)
}
