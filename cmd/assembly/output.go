package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"assembly-directory.backend/pkg/apiclient"
	"assembly-directory.backend/pkg/catalog"
)

func writeMemberTable(w io.Writer, members []apiclient.Member) {
	if len(members) == 0 {
		_, _ = fmt.Fprintln(w, "No members found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tCONSTITUENCY\tPARTY\tSESSION\tDATE\tTIME")
	for _, m := range members {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Name, m.Constituency, orDash(m.PartyName), m.SessionName,
			catalog.Day(m.SessionDate), formatMinutes(m.TimeTaken))
	}
	_ = tw.Flush()
}

func writeMemberDetail(w io.Writer, m *apiclient.Member, imageURL, logoURL string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"ID", m.ID},
		{"Name", m.Name},
		{"Constituency", m.Constituency},
		{"Party", orDash(m.PartyName)},
		{"Session", m.SessionName},
		{"Session date", catalog.Day(m.SessionDate)},
		{"Time taken", formatMinutes(m.TimeTaken)},
		{"Image", orDash(imageURL)},
		{"Party logo", orDash(logoURL)},
	}
	for _, row := range rows {
		_, _ = fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintf(w, "\nSpeech:\n%s\n", m.SpeechGiven)
}

func formatMinutes(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " min"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
