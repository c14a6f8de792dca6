// Package pdf gera o relatório impresso de produtos em falta.
//
// Layout da página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Relatório de Estoque em Falta │ Conta + Data        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Produto | Saldo | Mínimo | % do Mín | Status        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RODAPÉ: total de produtos listados                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jportela/estoque-api/internal/application/dto"
	"github.com/jportela/estoque-api/internal/application/ledger"
	"github.com/jportela/estoque-api/internal/domain/stock"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ ledger.ShortageReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa ledger.ShortageReportGenerator usando
// Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator constrói o gerador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateShortageReport gera o PDF e devolve seus bytes.
func (g *MarotoReportGenerator) GenerateShortageReport(
	_ context.Context,
	accountID int64,
	generatedAt time.Time,
	rows []dto.ShortageRow,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório de Estoque em Falta", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(accountID, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(rows)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (esq) e conta + data de geração (dir).
func headerRow(accountID int64, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("RELATÓRIO DE ESTOQUE EM FALTA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Conta: %d", accountID), props.Text{
				Size: 9, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Gerado em: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabeçalho da tabela de produtos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Produto", 5, align.Left),
		h("Saldo", 2, align.Right),
		h("Mínimo", 2, align.Right),
		h("% do Mín.", 1, align.Right),
		h("Status", 2, align.Center),
	)
}

// tableRows: uma linha por produto em falta; zerado e crítico em destaque.
func tableRows(rows []dto.ShortageRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		statusColor := colorGray
		if r.StockStatus == stock.StatusZerado || r.StockStatus == stock.StatusCritico {
			statusColor = colorDanger
		}
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(
				r.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				r.CurrentBalance.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				r.MinimumLevel.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				r.PercentageOfMinimum.StringFixed(1)+"%",
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				r.StockStatus,
				props.Text{Size: 8, Align: align.Center, Top: 1, Color: statusColor, Style: fontstyle.Bold},
			)),
		))
	}
	return result
}

// footerRow: contagem de produtos listados.
func footerRow(count int) core.Row {
	return row.New(8).Add(
		col.New(12).Add(text.New(
			fmt.Sprintf("Total de produtos em falta: %d", count),
			props.Text{Size: 8, Top: 2, Color: colorGray},
		)),
	)
}
