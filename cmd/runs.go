/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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
	"github.com/packagewjx/container-anomaly/internal/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"io"
	"text/tabwriter"
	"time"
)

const LimitFlag = "limit"

var runsLimit int

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "列出最近的训练记录",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		dao, err := store.NewDao(conf.Store.Driver, conf.Store.DSN, logger)
		if err != nil {
			return err
		}
		defer func() { _ = dao.Close() }()

		runs, err := dao.QueryRecentTrainingRuns(runsLimit)
		if err != nil {
			return errors.Wrap(err, "查询训练记录失败")
		}
		return printRuns(cmd.OutOrStdout(), runs)
	},
}

func printRuns(out io.Writer, runs []*store.TrainingRun) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "RUN ID\tCREATED\tDATA\tMODEL\tTRAIN\tTEST\tACCURACY\tPRECISION\tRECALL\tF1")
	for _, run := range runs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n",
			run.RunId, run.CreatedAt.Format(time.RFC3339), run.DataFile, run.ModelFile,
			run.NumTrain, run.NumTest, run.Accuracy, run.Precision, run.Recall, run.F1)
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().IntVarP(&runsLimit, LimitFlag, "n", 10,
		"最多列出的记录数")
}
