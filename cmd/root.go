/*
Copyright (c) CrossDB, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nightlyone/lockfile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/crossdb-io/crossdb/src/utils"
)

var (
	cfgFile  string
	workDir  string
	lockFile lockfile.Lockfile
)

var rootCmd = &cobra.Command{
	Use:   "crossdb",
	Short: "A CLI for smoke-testing and bulk-loading databases through the crossdb abstraction layer",
	Long: `A CLI companion to the crossdb database abstraction layer. Connect to PostgreSQL, YugabyteDB, MySQL,
Oracle or SQLite with one set of flags, inspect schemas, and bulk-load large-object payloads from local or object-store sources.`,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if workDir != "" && utils.FileOrFolderExists(workDir) {
			if cmd.Use != "version" {
				lockWorkDir(cmd)
			}
			InitLogging(workDir, cmd.Use == "version", cmd.Use)
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			os.Exit(0)
		}
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if workDir != "" && utils.FileOrFolderExists(workDir) && cmd.Use != "version" {
			unlockWorkDir()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.crossdb.yaml)")
	rootCmd.PersistentFlags().StringVarP(&workDir, "work-dir", "w", "",
		"working directory used to keep logs and load state")
	rootCmd.PersistentFlags().BoolVarP(&utils.DoNotPrompt, "yes", "y", false,
		"assume answer as yes for all questions (default false)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".crossdb" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".crossdb")
	}

	viper.SetEnvPrefix("CROSSDB")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func lockWorkDir(cmd *cobra.Command) {
	lockFileName := filepath.Join(workDir, ".crossdb.lck")
	lockFilePath, err := filepath.Abs(lockFileName)
	if err != nil {
		utils.ErrExit("absolute path of %q: %v", lockFileName, err)
	}
	lockFile, err = lockfile.New(lockFilePath)
	if err != nil {
		utils.ErrExit("initialize lockfile %q: %v", lockFilePath, err)
	}
	err = lockFile.TryLock()
	if err != nil {
		utils.ErrExit("another crossdb command is already running in %q: %v", workDir, err)
	}
}

func unlockWorkDir() {
	err := lockFile.Unlock()
	if err != nil {
		utils.ErrExit("unlock %q: %v", lockFile, err)
	}
}
