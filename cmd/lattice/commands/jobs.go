package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// jobOutput represents the filtered output for a job
type jobOutput struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func init() {
	jobsCmd.AddCommand(getJobCmd)
	jobsCmd.AddCommand(jobStatusCmd)
	jobsCmd.AddCommand(jobResultCmd)
	jobsCmd.AddCommand(cancelJobCmd)
	jobsCmd.AddCommand(listJobsCmd)

	getJobCmd.Flags().StringP("id", "i", "", "Job ID to fetch")
	_ = getJobCmd.MarkFlagRequired("id")

	jobStatusCmd.Flags().StringP("id", "i", "", "Job ID to query")
	_ = jobStatusCmd.MarkFlagRequired("id")

	jobResultCmd.Flags().StringP("id", "i", "", "Job ID to fetch the result for")
	jobResultCmd.Flags().StringP("output", "o", "", "File to write samples to (defaults to stdout)")
	_ = jobResultCmd.MarkFlagRequired("id")

	cancelJobCmd.Flags().StringP("id", "i", "", "Job ID to cancel")
	_ = cancelJobCmd.MarkFlagRequired("id")

	listJobsCmd.Flags().String("created-after", "", "Only list jobs created after this RFC 3339 timestamp")
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage jobs",
}

var getJobCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("id")

		job, err := conn.GetJob(cmd.Context(), jobID)
		if err != nil {
			return fmt.Errorf("error fetching job: %w", err)
		}

		output := jobOutput{
			ID:     job.ID(),
			Status: job.Status().String(),
		}

		prettyJSON, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(prettyJSON))
		return nil
	},
}

var jobStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a job's current status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("id")

		status, err := conn.GetJobStatus(cmd.Context(), jobID)
		if err != nil {
			return fmt.Errorf("error fetching job status: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), status)
		return nil
	},
}

var jobResultCmd = &cobra.Command{
	Use:   "result",
	Short: "Fetch the samples of a complete job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("id")
		output, _ := cmd.Flags().GetString("output")

		result, err := conn.GetJobResult(cmd.Context(), jobID)
		if err != nil {
			return fmt.Errorf("error fetching job result: %w", err)
		}

		return writeSamples(cmd, output, result.Samples())
	},
}

var cancelJobCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Request cancellation of a job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("id")

		if err := conn.CancelJob(cmd.Context(), jobID); err != nil {
			return fmt.Errorf("error cancelling job: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Requested cancellation of job %s\n", jobID)
		return nil
	},
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		createdAfter, _ := cmd.Flags().GetString("created-after")

		var after time.Time
		if createdAfter != "" {
			parsed, err := time.Parse(time.RFC3339, createdAfter)
			if err != nil {
				return fmt.Errorf("invalid created-after value: %w", err)
			}
			after = parsed
		}

		jobs, err := conn.ListJobs(cmd.Context(), after)
		if err != nil {
			return fmt.Errorf("error fetching jobs: %w", err)
		}

		output := make([]jobOutput, len(jobs))
		for i, job := range jobs {
			output[i] = jobOutput{
				ID:     job.ID(),
				Status: job.Status().String(),
			}
		}

		prettyJSON, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("error formatting response: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(prettyJSON))
		return nil
	},
}

// GetJobsCmd returns the jobs command
func GetJobsCmd() *cobra.Command {
	return jobsCmd
}
