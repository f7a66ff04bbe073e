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
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/crossdb-io/crossdb/src/dbal"
	"github.com/crossdb-io/crossdb/src/utils"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List the tables and columns visible in the configured schema.",

	Run: func(cmd *cobra.Command, args []string) {
		if err := resolveDBConf(cmd); err != nil {
			utils.ErrExit("%v", err)
		}
		ctx := context.Background()
		conn := connect(ctx)
		defer conn.Close()

		tables, err := conn.ListTables(ctx)
		if err != nil {
			utils.ErrExit("list tables: %v", err)
		}
		schema := map[string][]dbal.ColumnInfo{}
		for _, table := range tables {
			columns, err := conn.GetTableColumns(ctx, table)
			if err != nil {
				utils.ErrExit("columns of %s: %v", table, err)
			}
			schema[table] = columns
		}
		if inspectJSON {
			printSchemaJSON(schema)
			return
		}
		printSchemaTable(tables, schema)
	},
}

func printSchemaJSON(schema map[string][]dbal.ColumnInfo) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(schema); err != nil {
		utils.ErrExit("encode schema: %v", err)
	}
}

func printSchemaTable(tables []string, schema map[string][]dbal.ColumnInfo) {
	table := uitable.New()
	table.MaxColWidth = 50
	table.AddRow("TABLE", "COLUMN", "TYPE", "NULLABLE")
	for _, tableName := range tables {
		for _, col := range schema[tableName] {
			table.AddRow(tableName, col.Name, col.DataType, col.Nullable)
		}
	}
	fmt.Println(table)
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	registerDBConnFlags(inspectCmd)
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false,
		"emit the schema as JSON instead of a table")
}
