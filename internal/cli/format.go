package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/civicmap/civicmap/internal/comment"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printCommentDetail prints a single comment in text format.
func printCommentDetail(c *comment.Comment) {
	fmt.Printf("Comment #%d\n", c.ID)
	fmt.Printf("  Theme:    %s\n", c.Theme)
	fmt.Printf("  Location: %s\n", formatLocation(c.Latitude, c.Longitude))
	fmt.Printf("  ZIP:      %s\n", c.ZipCode)
	fmt.Printf("  Upvotes:  %d\n", c.Upvotes)
	fmt.Printf("  Posted:   %s\n", c.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  %s\n", c.CommentText)
}

// printCommentTable prints comments as a formatted table.
func printCommentTable(comments []*comment.Comment) error {
	if len(comments) == 0 {
		fmt.Println("No comments yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTHEME\tLOCATION\tZIP\tVOTES\tCOMMENT")
	for _, c := range comments {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
			c.ID, c.Theme, formatLocation(c.Latitude, c.Longitude),
			c.ZipCode, c.Upvotes, truncate(c.CommentText, 50))
	}
	return w.Flush()
}

// formatLocation renders coordinates with marker precision.
func formatLocation(lat, lng float64) string {
	return fmt.Sprintf("%.5f,%.5f", lat, lng)
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
