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
	"io"
	"path"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gosuri/uilive"
	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/crossdb-io/crossdb/src/datastore"
	"github.com/crossdb-io/crossdb/src/dbal"
	"github.com/crossdb-io/crossdb/src/types"
	"github.com/crossdb-io/crossdb/src/utils"
)

var (
	loadSourceDir   string
	loadPattern     string
	loadTable       string
	loadLobColumn   string
	loadNameColumn  string
	loadIDColumn    string
	loadAsClob      bool
	loadParallelism int
	loadDisablePb   bool
)

var loadLobCmd = &cobra.Command{
	Use:   "load-lob",
	Short: "Bulk-load large-object payloads into a table's LOB column.",
	Long: `Bulk-load payload files into a table's LOB column, one row per payload. Payloads are read from a local
directory or an object store (s3://..., gs://..., https://<account>.blob.core.windows.net/...) and streamed
through the abstraction layer's typed parameter binding.`,

	Run: func(cmd *cobra.Command, args []string) {
		if err := resolveDBConf(cmd); err != nil {
			utils.ErrExit("%v", err)
		}
		runLoadLob(context.Background())
	},
}

func runLoadLob(ctx context.Context) {
	store := datastore.New(loadSourceDir)
	payloads, err := store.Glob(loadPattern)
	if err != nil {
		utils.ErrExit("find payloads matching %q under %q: %v", loadPattern, loadSourceDir, err)
	}
	if len(payloads) == 0 {
		utils.ErrExit("no payloads matching %q under %q", loadPattern, loadSourceDir)
	}
	if !utils.AskPrompt(fmt.Sprintf("Load %d payloads into %s.%s", len(payloads), loadTable, loadLobColumn)) {
		utils.ErrExit("aborted")
	}

	conn := connect(ctx)
	defer conn.Close()

	runID := uuid.New()
	log.Infof("load-lob run %s: %d payloads into %s.%s", runID, len(payloads), loadTable, loadLobColumn)

	var progress *mpb.Progress
	var liveWriter *uilive.Writer
	if loadDisablePb {
		liveWriter = uilive.New()
		liveWriter.Start()
		defer liveWriter.Stop()
	} else {
		progress = mpb.New()
	}

	lobType := types.Blob
	if loadAsClob {
		lobType = types.Clob
	}

	var loadedFiles, loadedBytes int64
	workers := pool.New().WithMaxGoroutines(loadParallelism).WithErrors()
	for _, payload := range payloads {
		payload := payload
		workers.Go(func() error {
			n, err := loadOnePayload(ctx, conn, store, payload, lobType, progress)
			if err != nil {
				return fmt.Errorf("load %s: %w", payload, err)
			}
			files := atomic.AddInt64(&loadedFiles, 1)
			bytes := atomic.AddInt64(&loadedBytes, n)
			if liveWriter != nil {
				fmt.Fprintf(liveWriter, "loaded %d/%d payloads (%s)\n",
					files, len(payloads), humanize.Bytes(uint64(bytes)))
			}
			return nil
		})
	}
	err = workers.Wait()
	if progress != nil {
		progress.Wait()
	}
	if err != nil {
		utils.ErrExit("%s", failureMsg("load-lob run %s failed: %v", runID, err))
	}
	utils.PrintAndLog("%s", successMsg("Loaded %d payloads (%s) into %s.%s",
		loadedFiles, humanize.Bytes(uint64(loadedBytes)), loadTable, loadLobColumn))
}

func loadOnePayload(ctx context.Context, conn *dbal.Conn, store datastore.Store,
	payload string, lobType types.Type, progress *mpb.Progress) (int64, error) {

	size, err := store.Size(payload)
	if err != nil {
		return 0, err
	}
	reader, err := store.Open(payload)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	content := io.Reader(reader)
	if progress != nil {
		bar := progress.AddBar(size,
			mpb.BarRemoveOnComplete(),
			mpb.PrependDecorators(decor.Name(path.Base(payload))),
			mpb.AppendDecorators(decor.OnComplete(
				decor.NewPercentage("%.2f", decor.WCSyncSpaceR), "completed")),
		)
		content = bar.ProxyReader(reader)
	}

	row := []dbal.ColumnValue{
		{Column: loadNameColumn, Value: path.Base(payload), Type: types.String},
		{Column: loadLobColumn, Value: content, Type: lobType},
	}
	if loadIDColumn != "" {
		row = append([]dbal.ColumnValue{
			{Column: loadIDColumn, Value: uuid.NewString(), Type: types.String},
		}, row...)
	}
	if _, err := conn.Insert(ctx, loadTable, row); err != nil {
		return 0, err
	}
	return size, nil
}

func init() {
	rootCmd.AddCommand(loadLobCmd)
	registerDBConnFlags(loadLobCmd)
	loadLobCmd.Flags().StringVar(&loadSourceDir, "source-dir", "",
		"directory or object-store URL holding the payload files")
	loadLobCmd.Flags().StringVar(&loadPattern, "pattern", "*",
		"glob pattern selecting payloads under source-dir")
	loadLobCmd.Flags().StringVar(&loadTable, "table", "",
		"target table")
	loadLobCmd.Flags().StringVar(&loadLobColumn, "lob-column", "",
		"target large-object column")
	loadLobCmd.Flags().StringVar(&loadNameColumn, "name-column", "name",
		"column receiving the payload's base name")
	loadLobCmd.Flags().StringVar(&loadIDColumn, "id-column", "",
		"optional column receiving a generated UUID per row")
	loadLobCmd.Flags().BoolVar(&loadAsClob, "clob", false,
		"bind payloads as character LOBs instead of binary")
	loadLobCmd.Flags().IntVar(&loadParallelism, "parallelism", 4,
		"number of payloads loaded concurrently")
	loadLobCmd.Flags().BoolVar(&loadDisablePb, "disable-pb", false,
		"replace the per-payload progress bars with a single status line")
	loadLobCmd.MarkFlagRequired("source-dir")
	loadLobCmd.MarkFlagRequired("table")
	loadLobCmd.MarkFlagRequired("lob-column")
}
