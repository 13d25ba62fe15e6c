package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mohammad-safakhou/digestboard/models"
	"github.com/spf13/cobra"
)

func groupsCMD(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List the chat groups known to the digest service",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()
			groups, err := a.remote.GroupDetails(cmd.Context())
			if err != nil {
				return err
			}
			return renderGroups(cmd.OutOrStdout(), groups)
		},
	}
}

func renderGroups(w io.Writer, groups map[string]models.Group) error {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		rows = append(rows, []string{id, g.IM, g.SplitStrategy, g.AIModel, clip(g.GroupIntroduction, 50)})
	}
	return renderTable(w, []string{"group id", "im", "split", "model", "introduction"}, rows)
}

func chatCMD(cfgPath *string) *cobra.Command {
	var groupID, start, end string
	var chat = &cobra.Command{
		Use:   "chat",
		Short: "Print a group's chat messages for a time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(groupID) == "" {
				return fmt.Errorf("--group is required")
			}
			a, err := loadApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()
			w, err := windowFlags(start, end, a.cfg.Pipeline.DefaultWindow, time.Now())
			if err != nil {
				return err
			}
			msgs, err := a.remote.ChatMessagesByGroupID(cmd.Context(), groupID, w.Start, w.End)
			if err != nil {
				return err
			}
			return renderChat(cmd.OutOrStdout(), msgs)
		},
	}
	chat.Flags().StringVarP(&groupID, "group", "g", "", "group id")
	chat.Flags().StringVar(&start, "start", "", "window start (epoch ms, YYYY-MM-DD or RFC3339)")
	chat.Flags().StringVar(&end, "end", "", "window end")
	return chat
}

func renderChat(w io.Writer, msgs []models.ChatMessage) error {
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Timestamp < msgs[j].Timestamp })
	rows := make([][]string, 0, len(msgs))
	for _, m := range msgs {
		content := m.MessageContent
		if content == "" {
			content = m.PreProcessedContent
		}
		rows = append(rows, []string{fmtMillis(m.Timestamp), m.DisplayName(), clip(content, 80)})
	}
	return renderTable(w, []string{"time", "sender", "message"}, rows)
}
