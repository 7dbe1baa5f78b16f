package cmd

import (
	"fmt"
	"sort"

	"s3-manager/feature/objects"

	"github.com/spf13/cobra"
)

var uploadOpts struct {
	contentType string
	compress    bool
	metadata    map[string]string
}

var jsonOutput bool

var uploadCmd = &cobra.Command{
	Use:   "upload <file> <bucket> [object]",
	Short: "Upload a local file",
	Long:  `Uploads a local file to a bucket. The object name defaults to the file's base name.`,
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		object := ""
		if len(args) == 3 {
			object = args[2]
		}

		info, err := rt.service.Upload(cmd.Context(), args[0], args[1], object, objects.UploadOptions{
			ContentType: uploadOpts.contentType,
			Compress:    uploadOpts.compress,
			Metadata:    uploadOpts.metadata,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), info)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s/%s (%d bytes)\n", info.Bucket, info.Key, info.Size)
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <bucket> <object> <file>",
	Short: "Download an object to a local file",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		n, err := rt.service.Download(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "downloaded %s/%s to %s (%d bytes)\n", args[0], args[1], args[2], n)
		return nil
	},
}

var listPrefix string

var listCmd = &cobra.Command{
	Use:   "list <bucket>",
	Short: "List object keys in a bucket",
	Long:  `Lists one page of object keys. A notice is printed when the bucket holds more keys than one page.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		page, err := rt.service.List(cmd.Context(), args[0], listPrefix)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), page)
		}
		for _, key := range page.Keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		if page.Truncated {
			fmt.Fprintf(cmd.ErrOrStderr(), "(listing truncated after %d keys)\n", len(page.Keys))
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <bucket> <object>",
	Short: "Delete an object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		if err := rt.service.Delete(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s/%s\n", args[0], args[1])
		return nil
	},
}

var statCmd = &cobra.Command{
	Use:   "stat <bucket> <object>",
	Short: "Show object metadata",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		info, err := rt.service.GetObjectMetadata(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		fields := info.Fields()
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), fields)
		}

		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", name, fields[name])
		}
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadOpts.contentType, "content-type", "", "content type (detected when empty)")
	uploadCmd.Flags().BoolVar(&uploadOpts.compress, "gzip", false, "store the object gzip-compressed")
	uploadCmd.Flags().StringToStringVar(&uploadOpts.metadata, "meta", nil, "user metadata as key=value pairs")

	listCmd.Flags().StringVar(&listPrefix, "prefix", "", "only list keys with this prefix")

	for _, c := range []*cobra.Command{uploadCmd, listCmd, statCmd} {
		c.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
	}

	RootCmd.AddCommand(uploadCmd, downloadCmd, listCmd, deleteCmd, statCmd)
}
