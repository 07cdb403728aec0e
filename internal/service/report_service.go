package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kabaddi-od/backend/config"
	"kabaddi-od/backend/internal/dto"
	"kabaddi-od/backend/internal/model"
	"kabaddi-od/backend/internal/repository"
	"kabaddi-od/backend/pkg/civilday"
	"kabaddi-od/backend/pkg/metrics"
)

// ErrReportGenerateFail 生成 Excel 失败
var ErrReportGenerateFail = errors.New("Failed to generate report")

const reportSheet = "Sheet1"

// ReportService 导出业务接口
type ReportService interface {
	// Export 导出指定日期（空串为今天）的未删除提交，返回文件内容与建议文件名
	Export(ctx context.Context, date string, actor dto.Actor) (*bytes.Buffer, string, error)
}

type reportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logs   ActivityLogService
	clock  *civilday.Clock
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(
	cfg *config.Config,
	repo *repository.Repository,
	logs ActivityLogService,
	clock *civilday.Clock,
	logger *zap.Logger,
) ReportService {
	return &reportService{cfg: cfg, repo: repo, logs: logs, clock: clock, logger: logger}
}

func (s *reportService) Export(ctx context.Context, date string, actor dto.Actor) (*bytes.Buffer, string, error) {
	day, err := s.clock.Parse(strings.TrimSpace(date))
	if err != nil {
		return nil, "", validationErrorf("%s", err.Error())
	}
	from, to := s.clock.Bounds(day)

	// 提交与时间段互不依赖，并发加载
	var (
		subs   []model.Submission
		labels []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subs, err = s.repo.Submission.List(gctx, repository.SubmissionFilter{
			From:        from,
			To:          to,
			OldestFirst: true,
		})
		return err
	})
	g.Go(func() error {
		var err error
		labels, err = activeLabels(gctx, s.repo.Slot)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("加载导出数据失败", zap.String("date", s.clock.Key(day)), zap.Error(err))
		return nil, "", err
	}

	buf, err := GenerateReport(s.cfg.App.Name, subs, labels, day)
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", ErrReportGenerateFail
	}

	metrics.ReportsGenerated.Inc()
	s.logs.Append(ctx, &dto.AppendLogRequest{
		Action:  model.ActionDownload,
		Details: fmt.Sprintf("Exported report for %s (%d submission(s))", s.clock.Key(day), len(subs)),
		Actor:   actor,
	})

	return buf, ReportFilename(s.cfg.App.Name, day), nil
}

// ReportFilename 如 kabaddi_19_10_2026.xlsx
func ReportFilename(appName string, day time.Time) string {
	return fmt.Sprintf("%s_%d_%d_%d.xlsx", strings.ToLower(appName), day.Day(), int(day.Month()), day.Year())
}

// ReportTitle 如 "Kabaddi 19 Oct 2026"
func ReportTitle(appName string, day time.Time) string {
	return fmt.Sprintf("%s %d %s %d", appName, day.Day(), day.Format("Jan"), day.Year())
}

// buildReportColumns 每个时间段一列，按输入顺序列出选择该时间段的学号，
// 并以空串补齐到最长列
func buildReportColumns(subs []model.Submission, labels []string) [][]string {
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, ok := index[l]; !ok {
			index[l] = i
		}
	}

	cols := make([][]string, len(labels))
	for _, sub := range subs {
		for _, slot := range sub.Slots {
			if i, ok := index[slot]; ok {
				cols[i] = append(cols[i], sub.RegNo)
			}
		}
	}

	longest := 0
	for _, c := range cols {
		if len(c) > longest {
			longest = len(c)
		}
	}
	for i := range cols {
		for len(cols[i]) < longest {
			cols[i] = append(cols[i], "")
		}
	}
	return cols
}

// GenerateReport 生成导出表格
//
// 布局：
//   - 第 1 行：合并标题 "<App> <d> <Mon> <yyyy>"
//   - 第 2 行：加粗的时间段标签
//   - 第 3 行起：各时间段下的学号
func GenerateReport(appName string, subs []model.Submission, labels []string, day time.Time) (*bytes.Buffer, error) {
	cols := buildReportColumns(subs, labels)

	f := excelize.NewFile()
	defer f.Close()

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	// 标题
	if err := f.SetCellValue(reportSheet, "A1", ReportTitle(appName, day)); err != nil {
		return nil, err
	}
	if len(labels) > 1 {
		if err := f.MergeCell(reportSheet, "A1", cell(colName(len(labels)), 1)); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(reportSheet, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}

	// 表头与数据
	for i, label := range labels {
		col := colName(i + 1)
		if err := f.SetCellValue(reportSheet, cell(col, 2), label); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(reportSheet, cell(col, 2), cell(col, 2), headerStyle); err != nil {
			return nil, err
		}

		width := utf8.RuneCountInString(label)
		for r, regNo := range cols[i] {
			if regNo == "" {
				continue
			}
			if err := f.SetCellValue(reportSheet, cell(col, 3+r), regNo); err != nil {
				return nil, err
			}
			if n := utf8.RuneCountInString(regNo); n > width {
				width = n
			}
		}
		if err := f.SetColWidth(reportSheet, col, col, float64(width+2)); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
