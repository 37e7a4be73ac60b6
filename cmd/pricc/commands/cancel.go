package commands

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tormodfh/pricc/internal/cli/prompt"
)

var cancelForce bool

var cancelCmd = &cobra.Command{
	Use:   "cancel <record-id>",
	Short: "Cancel a CC record on a running pricc process",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancel,
}

func init() {
	cancelCmd.Flags().BoolVarP(&cancelForce, "force", "f", false, "skip the confirmation prompt")
}

func runCancel(cmd *cobra.Command, args []string) error {
	recordID := args[0]

	ok, err := prompt.ConfirmWithForce(fmt.Sprintf("Cancel CC record %s?", recordID), cancelForce)
	if err != nil {
		if prompt.IsAborted(err) {
			return nil
		}
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}

	token := resolveAPIToken()
	if token == "" {
		return fmt.Errorf("no admin api token set (--api-token or PRICC_API_TOKEN)")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/api/v1/records/%s/cancel", apiAddr, recordID), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("reach admin api at %s: %w", apiAddr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("admin api returned %s", resp.Status)
	}

	fmt.Printf("Record %s cancelled.\n", recordID)
	return nil
}
