// Package pdf genera la versión imprimible del informe de analítica.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + título      │  Fecha de generación       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: Coste anual | Mensual | Logiciels | Utilisateurs    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Coste por categoría                                 │
//	│  TABLA: Top 10 por coste                                    │
//	│  TABLA: Contratos que vencen en 90 días                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 37, Green: 99, Blue: 235}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ ports.ReportRenderer = (*MarotoReportRenderer)(nil)

// MarotoReportRenderer implementa ports.ReportRenderer usando Maroto v2.
type MarotoReportRenderer struct {
	printer *message.Printer
}

// NewMarotoReportRenderer construye el renderer con formato numérico francés.
func NewMarotoReportRenderer() *MarotoReportRenderer {
	return &MarotoReportRenderer{printer: message.NewPrinter(language.French)}
}

// RenderAnalyticsReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportRenderer) RenderAnalyticsReport(_ context.Context, report *dto.AnalyticsReportDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: informe vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Rapport d'analyse des coûts", true).
		WithAuthor(nonEmpty(report.CompanyName, "LogicielHub"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.kpiRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("Coût annuel par catégorie"))
	m.AddRows(tableHeader([]string{"Catégorie", "Coût annuel"}, []int{8, 4}))
	categories := make([][]string, 0, len(report.CostByCategory))
	for _, c := range report.CostByCategory {
		categories = append(categories, []string{c.Name, g.money(c.Value)})
	}
	m.AddRows(tableRows(categories, []int{8, 4})...)

	m.AddRows(sectionTitle("Logiciels les plus coûteux"))
	m.AddRows(tableHeader([]string{"Logiciel", "Coût annuel"}, []int{8, 4}))
	top := make([][]string, 0, len(report.CostBySoftware))
	for _, s := range report.CostBySoftware {
		top = append(top, []string{s.Name, g.money(s.Cost)})
	}
	m.AddRows(tableRows(top, []int{8, 4})...)

	m.AddRows(sectionTitle("Contrats arrivant à échéance (90 jours)"))
	m.AddRows(tableHeader([]string{"Logiciel", "Échéance", "Jours", "Montant"}, []int{5, 3, 1, 3}))
	expiring := make([][]string, 0, len(report.ExpiringContracts))
	for _, e := range report.ExpiringContracts {
		expiring = append(expiring, []string{
			e.Name, e.EndDate.Format("02/01/2006"), g.printer.Sprintf("%d", e.DaysLeft), g.money(e.Cost),
		})
	}
	m.AddRows(tableRows(expiring, []int{5, 3, 1, 3})...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + título (izq) y fecha de generación (der).
func (g *MarotoReportRenderer) headerRow(report *dto.AnalyticsReportDTO) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(nonEmpty(report.CompanyName, "LogicielHub"), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Rapport d'analyse des coûts logiciels", props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Généré le "+report.GeneratedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

// kpiRow: cuatro indicadores principales.
func (g *MarotoReportRenderer) kpiRow(report *dto.AnalyticsReportDTO) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 2, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 7, Align: align.Center}),
		)
	}
	return row.New(16).Add(
		kpi("Coût annuel", g.money(report.YearlyCost)),
		kpi("Coût mensuel", g.money(report.MonthlyCost)),
		kpi("Logiciels", g.printer.Sprintf("%d", report.SoftwareCount)),
		kpi("Utilisateurs actifs", g.printer.Sprintf("%d", report.ActiveUsers)),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(10).Add(col.New(12).Add(text.New(title, props.Text{
		Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 4,
	})))
}

func tableHeader(labels []string, sizes []int) core.Row {
	r := row.New(7)
	for i, l := range labels {
		a := align.Left
		if i > 0 {
			a = align.Right
		}
		r.Add(col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1.5, Color: colorGray,
		})))
	}
	return r
}

// tableRows: una fila por entrada; sin datos, una fila "Aucune donnée".
func tableRows(rows [][]string, sizes []int) []core.Row {
	if len(rows) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(text.New("Aucune donnée", props.Text{
			Size: 8, Style: fontstyle.Italic, Color: colorGray, Top: 1,
		})))}
	}
	out := make([]core.Row, 0, len(rows))
	for _, cells := range rows {
		r := row.New(6)
		for i, c := range cells {
			a := align.Left
			if i > 0 {
				a = align.Right
			}
			r.Add(col.New(sizes[i]).Add(text.New(c, props.Text{Size: 8, Align: a, Top: 1})))
		}
		out = append(out, r)
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea un importe en euros a la francesa: "1 234,50 €".
// Los espacios finos de agrupación se sustituyen por espacios normales (la fuente
// estándar del PDF no los incluye).
func (g *MarotoReportRenderer) money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	s := g.printer.Sprintf("%.2f", f)
	s = strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(s)
	return s + " €"
}
