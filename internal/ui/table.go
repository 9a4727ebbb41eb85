package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bdraco/unifi-discovery/internal/device"
)

// tableColumns defines the results table layout. Width 0 means size to
// content.
var tableColumns = []struct {
	title string
	field func(*device.Device) string
	muted bool
}{
	{title: "IP", field: func(d *device.Device) string { return d.SourceIP }},
	{title: "MAC", field: func(d *device.Device) string { return d.HWAddr }},
	{title: "Hostname", field: func(d *device.Device) string { return d.Hostname }},
	{title: "Platform", field: func(d *device.Device) string { return d.Platform }},
	{title: "Model", field: func(d *device.Device) string { return d.Model }},
	{title: "Version", field: func(d *device.Device) string { return d.FWVersion }},
	{title: "Uptime", field: func(d *device.Device) string { return FormatUptime(d.Uptime) }, muted: true},
	{title: "Vendor", field: func(d *device.Device) string { return d.Vendor }, muted: true},
}

// FormatUptime renders an uptime in seconds as a compact duration, e.g.
// "15d2h41m". Returns "-" when the device did not report one.
func FormatUptime(seconds *uint32) string {
	if seconds == nil {
		return "-"
	}
	d := time.Duration(*seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh%dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// RenderDeviceTable renders discovered devices as an aligned, styled table.
func RenderDeviceTable(devices []*device.Device) string {
	if len(devices) == 0 {
		return MutedStyle.Render("No devices found.")
	}

	widths := make([]int, len(tableColumns))
	rows := make([][]string, len(devices))
	for i, col := range tableColumns {
		widths[i] = len(col.title)
	}
	for r, d := range devices {
		row := make([]string, len(tableColumns))
		for i, col := range tableColumns {
			v := col.field(d)
			if v == "" {
				v = "-"
			}
			row[i] = v
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
		rows[r] = row
	}

	var b strings.Builder
	headerCells := make([]string, len(tableColumns))
	for i, col := range tableColumns {
		headerCells[i] = HeaderStyle.Render(pad(col.title, widths[i]))
	}
	b.WriteString(strings.Join(headerCells, "  "))
	b.WriteString("\n")

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			style := CellStyle
			if tableColumns[i].muted {
				style = MutedStyle
			}
			cells[i] = style.Render(pad(v, widths[i]))
		}
		b.WriteString(strings.Join(cells, "  "))
		b.WriteString("\n")
	}

	return TableBorderStyle().Render(strings.TrimRight(b.String(), "\n"))
}

// RenderDeviceDetail renders one device as a key/value block, used for
// targeted scans and the alive command.
func RenderDeviceDetail(d *device.Device) string {
	keyStyle := MutedStyle.Width(22)
	var b strings.Builder

	write := func(key, value string) {
		if value == "" {
			return
		}
		b.WriteString(keyStyle.Render(key))
		b.WriteString(CellStyle.Render(value))
		b.WriteString("\n")
	}

	write("IP", d.SourceIP)
	write("MAC", d.HWAddr)
	write("Hostname", d.Hostname)
	write("Platform", d.Platform)
	write("Model", d.Model)
	write("Firmware", d.FWVersion)
	if d.Uptime != nil {
		write("Uptime", FormatUptime(d.Uptime))
	}
	write("Vendor", d.Vendor)
	write("Direct connect", d.DirectConnectDomain)
	for svc, present := range d.Services {
		marker := FailureMarker
		if present {
			marker = SuccessMarker
		}
		write("Service "+svc.String(), marker)
	}

	return lipgloss.NewStyle().PaddingLeft(1).Render(strings.TrimRight(b.String(), "\n"))
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
