package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/biggeezerdevelopment/jsonmin"
)

var (
	grey      = color.New(color.FgHiBlack).SprintFunc()
	boldwhite = color.New(color.FgHiWhite, color.Bold).SprintFunc()
	green     = color.New(color.FgGreen).SprintFunc()
	warn      = color.New(color.FgYellow, color.Bold).SprintFunc()
)

func savedPercent(in, out int64) float64 {
	if in == 0 {
		return 0
	}
	return 100 * (1 - float64(out)/float64(in))
}

func printReport(w io.Writer, name string, rep jsonmin.Report) {
	fmt.Fprintf(w, "%s %s\n", boldwhite(name), grey(fmt.Sprintf("(%s, %s)", rep.Mode, rep.Accelerator)))
	fmt.Fprintf(w, "  size     %s -> %s %s\n",
		humanize.Bytes(uint64(rep.InputBytes)),
		humanize.Bytes(uint64(rep.OutputBytes)),
		green(fmt.Sprintf("-%.1f%%", savedPercent(int64(rep.InputBytes), int64(rep.OutputBytes)))))

	if rep.Parallel {
		s := rep.Scheduler
		fmt.Fprintf(w, "  chunks   %s on %d workers, %d/%d steals, %d idle yields\n",
			humanize.Comma(int64(rep.Chunks)), rep.Workers, s.StealSuccesses, s.StealAttempts, s.IdleYields)
	} else {
		fmt.Fprintf(w, "  chunks   1 %s\n", grey("(serial)"))
	}

	fmt.Fprintf(w, "  elapsed  %s (%s/s)\n",
		rep.Elapsed.Round(time.Microsecond), humanize.Bytes(uint64(rep.Throughput())))
}

func printBatchSummary(w io.Writer, files int, in, out int64, failed int, elapsed time.Duration) {
	fmt.Fprintf(w, "%s %s -> %s %s in %s\n",
		boldwhite(fmt.Sprintf("%d files", files)),
		humanize.Bytes(uint64(in)),
		humanize.Bytes(uint64(out)),
		green(fmt.Sprintf("-%.1f%%", savedPercent(in, out))),
		elapsed.Round(time.Millisecond))
	if failed > 0 {
		fmt.Fprintf(w, "%s\n", warn(fmt.Sprintf("%d files failed", failed)))
	}
}
