package report

import "github.com/samber/lo"

// mtr JSON hub keys
const (
	ColumnCount = "count"
	ColumnHost  = "host"
	ColumnASN   = "ASN"
	ColumnLoss  = "Loss%"
	ColumnDrop  = "Drop"
	ColumnRcv   = "Rcv"
	ColumnSnt   = "Snt"
	ColumnLast  = "Last"
	ColumnBest  = "Best"
	ColumnAvg   = "Avg"
	ColumnWrst  = "Wrst"
	ColumnStDev = "StDev"
	ColumnGmean = "Gmean"
	ColumnJttr  = "Jttr"
	ColumnJavg  = "Javg"
	ColumnJmax  = "Jmax"
	ColumnJint  = "Jint"
)

var (
	// LossColumns are classified against the loss threshold set
	LossColumns = []string{ColumnLoss}

	// LatencyColumns are classified against the latency threshold set
	LatencyColumns = []string{ColumnLast, ColumnAvg, ColumnBest, ColumnWrst, ColumnStDev}

	textColumns = []string{ColumnHost, ColumnASN}

	knownColumns = []string{
		ColumnCount, ColumnHost, ColumnASN,
		ColumnLoss, ColumnDrop, ColumnRcv, ColumnSnt,
		ColumnLast, ColumnBest, ColumnAvg, ColumnWrst, ColumnStDev,
		ColumnGmean, ColumnJttr, ColumnJavg, ColumnJmax, ColumnJint,
	}
)

func IsLossColumn(column string) bool {
	return lo.Contains(LossColumns, column)
}

func IsLatencyColumn(column string) bool {
	return lo.Contains(LatencyColumns, column)
}

// IsKnownColumn reports whether mtr is known to emit column in its JSON hubs
func IsKnownColumn(column string) bool {
	return lo.Contains(knownColumns, column)
}

// IsNumericColumn reports whether column must hold a number
func IsNumericColumn(column string) bool {
	return IsKnownColumn(column) && !lo.Contains(textColumns, column)
}
