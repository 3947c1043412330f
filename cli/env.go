package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "folio"

// checkEnvironmentVariables 把 FOLIO_<命令>_<参数> 环境变量填入未在命令行上给出的参数。
// 从根命令继承的参数（例如 --verbose）使用 FOLIO_<参数>。
func checkEnvironmentVariables(command *cobra.Command) error {
	var errs []string
	global := viper.New()
	global.AutomaticEnv()
	global.SetEnvPrefix(envPrefix)

	local := global
	if command.Name() != envPrefix {
		local = viper.New()
		local.AutomaticEnv()
		local.SetEnvPrefix(fmt.Sprintf("%s_%s", envPrefix, command.Name()))
	}

	inherited := command.InheritedFlags()
	command.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		v := local
		if inherited.Lookup(f.Name) != nil {
			v = global
		}
		configName := strings.ReplaceAll(f.Name, "-", "_")
		if !v.IsSet(configName) {
			return
		}
		if err := command.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(configName))); err != nil {
			errs = append(errs, err.Error())
		}
	})

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("环境变量映射到命令参数失败: %s", strings.Join(errs, "; "))
}
