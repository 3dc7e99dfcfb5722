package booter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DefaultFunctions are available to every config file.
//
//	env("NAME", "default")   flag("--name", "default")   arg(1, "default")
//	envOrError("NAME")       flagOrError("--name")       argOrError(1)
//	pname()  version()  execDir()  tempDir()  userDir()  userConfDir()  prefDir("sub")
//	upper(s)  lower(s)  min(a, b)  max(a, b)  strlen(s)  substr(s, offset, length)
var DefaultFunctions = map[string]function.Function{
	"env":         GetEnvFunc,
	"envOrError":  GetEnv2Func,
	"flag":        GetFlagFunc,
	"flagOrError": GetFlag2Func,
	"arg":         GetArgFunc,
	"argOrError":  GetArg2Func,
	"pname":       stringFunc(Pname),
	"version":     stringFunc(VersionString),
	"execDir":     dirFunc(executableDir),
	"tempDir":     dirFunc(func() (string, error) { return os.TempDir(), nil }),
	"userDir":     dirFunc(os.UserHomeDir),
	"userConfDir": dirFunc(os.UserConfigDir),
	"prefDir":     GetPrefDirFunc,
	"upper":       stdlib.UpperFunc,
	"lower":       stdlib.LowerFunc,
	"min":         stdlib.MinFunc,
	"max":         stdlib.MaxFunc,
	"strlen":      stdlib.StrlenFunc,
	"substr":      stdlib.SubstrFunc,
}

func stringFunc(f func() string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.StringVal(f()), nil
		},
	})
}

func dirFunc(f func() (string, error)) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{},
		Type:   function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			dir, err := f()
			if err != nil {
				return cty.NilVal, err
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(abs), nil
		},
	})
}

func executableDir() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exePath), nil
}

var GetPrefDirFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "sub", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(filepath.Join(home, ".config", args[0].AsString())), nil
	},
})

// defaultArg is the optional second argument, or an empty string.
func defaultArg(args []cty.Value) cty.Value {
	if len(args) > 1 && !args[1].IsNull() {
		return args[1]
	}
	return cty.StringVal("")
}

// positional returns the command line arguments that are not flags,
// the program name included.
func positional() []string {
	ret := make([]string, 0, len(os.Args))
	for i, v := range os.Args {
		if i != 0 && strings.HasPrefix(v, "-") {
			continue
		}
		ret = append(ret, v)
	}
	return ret
}

// lookupFlag finds "--name value" or "--name=value" in the command line.
func lookupFlag(name string) (string, bool) {
	for i, arg := range os.Args {
		if arg == name {
			if i < len(os.Args)-1 {
				return os.Args[i+1], true
			}
			return "", true
		} else if strings.HasPrefix(arg, name+"=") {
			return arg[len(name)+1:], true
		}
	}
	return "", false
}

var GetArgFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "argi", Type: cty.Number},
	},
	VarParam: &function.Parameter{Name: "default", Type: cty.String},
	Type:     function.StaticReturnType(cty.String),
	Impl:     func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		var i int
		if err := gocty.FromCtyValue(args[0], &i); err != nil {
			return cty.NilVal, err
		}
		a := positional()
		if i < 0 || i >= len(a) {
			return defaultArg(args), nil
		}
		return cty.StringVal(a[i]), nil
	},
})

var GetArg2Func = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "argi", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		var i int
		if err := gocty.FromCtyValue(args[0], &i); err != nil {
			return cty.NilVal, err
		}
		a := positional()
		if i < 0 || i >= len(a) {
			return cty.NilVal, fmt.Errorf("required argument %d missing", i)
		}
		return cty.StringVal(a[i]), nil
	},
})

var GetEnvFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "env", Type: cty.String},
	},
	VarParam: &function.Parameter{Name: "default", Type: cty.String},
	Type:     function.StaticReturnType(cty.String),
	Impl:     func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		if out, ok := os.LookupEnv(args[0].AsString()); ok {
			return cty.StringVal(out), nil
		}
		return defaultArg(args), nil
	},
})

var GetEnv2Func = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "env", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		in := args[0].AsString()
		out, ok := os.LookupEnv(in)
		if !ok {
			return cty.NilVal, fmt.Errorf("required env variable %s missing", in)
		}
		return cty.StringVal(out), nil
	},
})

var GetFlagFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "flag", Type: cty.String},
	},
	VarParam: &function.Parameter{Name: "default", Type: cty.String},
	Type:     function.StaticReturnType(cty.String),
	Impl:     func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		if out, ok := lookupFlag(args[0].AsString()); ok {
			return cty.StringVal(out), nil
		}
		return defaultArg(args), nil
	},
})

var GetFlag2Func = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "flag", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		in := args[0].AsString()
		out, ok := lookupFlag(in)
		if !ok {
			return cty.NilVal, fmt.Errorf("required flag %s missing", in)
		}
		return cty.StringVal(out), nil
	},
})
