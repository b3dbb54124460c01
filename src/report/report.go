// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package report renders a blocked-domain analysis for people: as a text
// table for the terminal, or as an XLSX workbook to share.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/H0llyW00dzZ/dnsunblock/src/unblock"
)

// Sheet names of the workbook written by [WriteXLSX].
const (
	SheetRoots = "Roots"
	SheetHosts = "Hosts"
)

const timeLayout = time.RFC3339

// Data is everything a report needs.
type Data struct {
	Groups      []unblock.DomainGroup
	Hosts       []unblock.HostStat
	DeviceNames map[string]string

	// Root maps a host to its root domain for the Hosts sheet.
	// When nil, [unblock.ExtractRoot] is used.
	Root func(host string) string
}

func (d Data) root(host string) string {
	if d.Root != nil {
		return d.Root(host)
	}
	return unblock.ExtractRoot(host)
}

func (d Data) device(id string) string {
	if n, ok := d.DeviceNames[id]; ok && n != "" {
		return n
	}
	return id
}

// WriteTable renders the ranked groups as an aligned text table. With
// subdomains set, each group is followed by its member hostnames.
func WriteTable(w io.Writer, groups []unblock.DomainGroup, subdomains bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tROOT\tATTEMPTS\tHOSTS\tLAST SEEN")
	for i, g := range groups {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n",
			i+1, g.Root, g.TotalAttempts, len(g.Members), g.LastSeen.Local().Format(time.DateTime))
		if subdomains {
			for _, m := range g.Subdomains() {
				fmt.Fprintf(tw, "\t  %s\t\t\t\n", m)
			}
		}
	}
	return tw.Flush()
}

// WriteXLSX writes a workbook with a Roots sheet (one row per group) and a
// Hosts sheet (one row per hostname).
func WriteXLSX(w io.Writer, d Data) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetRoots); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if _, err := f.NewSheet(SheetHosts); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	rows := [][]any{{"Root", "Attempts", "Hosts", "Last Seen", "Members"}}
	for _, g := range d.Groups {
		rows = append(rows, []any{
			g.Root,
			g.TotalAttempts,
			len(g.Members),
			g.LastSeen.UTC().Format(timeLayout),
			strings.Join(g.Members, ", "),
		})
	}
	if err := writeRows(f, SheetRoots, rows); err != nil {
		return err
	}

	rows = [][]any{{"Host", "Root", "Count", "Last Seen", "Last Rule", "Device"}}
	for _, h := range d.Hosts {
		rows = append(rows, []any{
			h.Domain,
			d.root(h.Domain),
			h.Count,
			h.LastSeen.UTC().Format(timeLayout),
			h.LastRule,
			d.device(h.LastDeviceID),
		})
	}
	if err := writeRows(f, SheetHosts, rows); err != nil {
		return err
	}

	if err := f.SetPanes(SheetRoots, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("report: write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("report: %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
