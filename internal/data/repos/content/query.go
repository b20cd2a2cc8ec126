package content

import (
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/campusshare-backend/internal/platform/dbctx"
)

// ListQuery is a validated filter/sort/page request. Zero values mean "any".
type ListQuery struct {
	Department string
	Semester   int
	Subject    string
	Year       int
	ExamType   string
	SortBy     string
	Desc       bool
	Offset     int
	Limit      int
}

// sortColumns maps accepted sort keys to columns.
var sortColumns = map[string]string{
	"created_at":     "created_at",
	"like_count":     "like_count",
	"download_count": "download_count",
	"title":          "title",
}

func SortColumn(key string) (string, bool) {
	col, ok := sortColumns[strings.TrimSpace(key)]
	return col, ok
}

func applyFilters(q *gorm.DB, lq ListQuery) *gorm.DB {
	if lq.Department != "" {
		q = q.Where("department = ?", lq.Department)
	}
	if lq.Semester > 0 {
		q = q.Where("semester = ?", lq.Semester)
	}
	if s := strings.TrimSpace(lq.Subject); s != "" {
		q = q.Where("LOWER(subject) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(s))+"%")
	}
	if lq.Year > 0 {
		q = q.Where("year = ?", lq.Year)
	}
	if lq.ExamType != "" {
		q = q.Where("exam_type = ?", lq.ExamType)
	}
	return q
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func orderClause(lq ListQuery) string {
	col, ok := SortColumn(lq.SortBy)
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if lq.Desc {
		dir = "DESC"
	}
	// id breaks ties so pages are stable.
	return col + " " + dir + ", id " + dir
}

// list runs the count and the page query. Outside a transaction they run
// concurrently on separate connections.
func list[T any](db *gorm.DB, dbc dbctx.Context, model *T, lq ListQuery) ([]*T, int64, error) {
	var (
		items []*T
		total int64
	)
	if dbc.Tx != nil {
		base := dbc.Tx.WithContext(dbc.Ctx)
		if err := applyFilters(base.Model(model), lq).Count(&total).Error; err != nil {
			return nil, 0, err
		}
		if err := applyFilters(base.Model(model), lq).
			Order(orderClause(lq)).Offset(lq.Offset).Limit(lq.Limit).
			Find(&items).Error; err != nil {
			return nil, 0, err
		}
		return items, total, nil
	}

	g, ctx := errgroup.WithContext(dbc.Ctx)
	g.Go(func() error {
		return applyFilters(db.WithContext(ctx).Model(model), lq).Count(&total).Error
	})
	g.Go(func() error {
		return applyFilters(db.WithContext(ctx).Model(model), lq).
			Order(orderClause(lq)).Offset(lq.Offset).Limit(lq.Limit).
			Find(&items).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
