package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tormodfh/pricc/internal/cc/record"
	"github.com/tormodfh/pricc/internal/cli/output"
)

var statusOutput string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List live CC records from a running pricc process",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table", "output format (table|json|yaml)")
}

// recordRow mirrors the admin API's per-record JSON shape, trimmed to
// what the CLI needs to display.
type recordRow struct {
	RecordID int            `json:"RecordID"`
	Dialect  record.Dialect `json:"Dialect"`
	State    record.State   `json:"State"`
	IsAgent  bool           `json:"IsAgent"`
	IsCCNR   bool           `json:"IsCCNR"`
}

type recordTable []recordRow

func (t recordTable) Headers() []string {
	return []string{"ID", "DIALECT", "STATE", "ROLE", "CCNR"}
}

func (t recordTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		role := "agent"
		if !r.IsAgent {
			role = "monitor"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.RecordID),
			r.Dialect.String(),
			r.State.String(),
			role,
			fmt.Sprintf("%v", r.IsCCNR),
		})
	}
	return rows
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statusOutput)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest(http.MethodGet, apiAddr+"/api/v1/records", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("reach admin api at %s: %w", apiAddr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("admin api returned %s", resp.Status)
	}

	var rows recordTable
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return fmt.Errorf("decode admin api response: %w", err)
	}

	return output.Print(os.Stdout, format, rows)
}
