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
	"context"

	"github.com/spf13/cobra"

	"github.com/crossdb-io/crossdb/src/utils"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Connect to the database and report server version and driver capabilities.",

	Run: func(cmd *cobra.Command, args []string) {
		if err := resolveDBConf(cmd); err != nil {
			utils.ErrExit("%v", err)
		}
		conn := connect(context.Background())
		defer conn.Close()

		caps := conn.Capabilities()
		utils.PrintAndLog("%s", successMsg("Connected to %s (server version %s)", dbConf.DBType, conn.ServerVersion()))
		utils.PrintAndLog("streaming large-object binds:    %v", caps.SupportsStreamingLobBinds)
		utils.PrintAndLog("insert returning:                %v", caps.SupportsReturning)
		utils.PrintAndLog("lob writes require transaction:  %v", caps.RequiresLobTransaction)
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
	registerDBConnFlags(pingCmd)
}
