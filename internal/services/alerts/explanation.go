package alerts

import (
	"fmt"
	"strings"

	"github.com/ternarybob/vigia/internal/models"
)

// Severity bands over alert probability.
const (
	severityCritical = "crítico"
	severityHigh     = "alto"
	severityElevated = "elevado"
	severityModerate = "moderado"
)

func severityBand(probability float64) string {
	switch {
	case probability >= 0.85:
		return severityCritical
	case probability >= 0.70:
		return severityHigh
	case probability >= 0.50:
		return severityElevated
	default:
		return severityModerate
	}
}

var recommendations = map[string]string{
	severityCritical: "Recomendación: activar protocolo de crisis y verificar en terreno de inmediato.",
	severityHigh:     "Recomendación: escalar al equipo territorial y monitorear cada hora.",
	severityElevated: "Recomendación: aumentar frecuencia de monitoreo y revisar fuentes locales.",
	severityModerate: "Recomendación: mantener monitoreo regular.",
}

// buildExplanation assembles the deterministic structured explanation for an
// alert: headline, quantified reasons, evidence list, recommendation tier.
// Identical inputs always produce identical text, so the explanation is safe
// to diff across reruns.
func buildExplanation(rule *models.AlertRule, snap *models.RiskSnapshot, evidence []models.EvidenceSignal) string {
	band := severityBand(snap.RiskProb)

	var b strings.Builder
	fmt.Fprintf(&b, "Alerta '%s' en %s: riesgo %s (probabilidad %.2f, confianza %.2f).\n",
		rule.Name, snap.Territory, band, snap.RiskProb, snap.Confidence)

	b.WriteString("Razones:\n")
	fmt.Fprintf(&b, "- Probabilidad de riesgo en banda %s.\n", band)

	switch snap.Trend {
	case models.TrendRising:
		fmt.Fprintf(&b, "- Tendencia al alza: +%.1f%% respecto a la ventana anterior.\n", snap.TrendPct)
	case models.TrendFalling:
		fmt.Fprintf(&b, "- Tendencia a la baja: %.1f%% respecto a la ventana anterior.\n", snap.TrendPct)
	default:
		b.WriteString("- Tendencia estable respecto a la ventana anterior.\n")
	}

	if snap.IsAnomaly {
		b.WriteString("- Desviación anómala frente al historial del territorio.\n")
	}

	fmt.Fprintf(&b, "- Volumen de señales %s: %d señales de %d fuentes en %d días.\n",
		volumeBand(snap.Drivers.NumSignals), snap.Drivers.NumSignals, snap.Drivers.DistinctSources, snap.Drivers.WindowDays)

	fmt.Fprintf(&b, "- Sentimiento promedio %s (%.2f).\n",
		sentimentBand(snap.Drivers.MeanSentiment), snap.Drivers.MeanSentiment)

	if len(snap.Drivers.TopTopics) > 0 {
		names := make([]string, 0, len(snap.Drivers.TopTopics))
		for _, t := range snap.Drivers.TopTopics {
			names = append(names, fmt.Sprintf("%s (%d)", t.Topic, t.Count))
		}
		fmt.Fprintf(&b, "- Temas principales: %s.\n", strings.Join(names, ", "))
	}

	if len(evidence) > 0 {
		b.WriteString("Evidencia:\n")
		for _, ev := range evidence {
			fmt.Fprintf(&b, "- %s (confianza %.2f)\n", ev.Title, ev.Confidence)
		}
	}

	b.WriteString(recommendations[band])
	return b.String()
}

func volumeBand(numSignals int) string {
	switch {
	case numSignals >= 10:
		return "alto"
	case numSignals >= 3:
		return "moderado"
	default:
		return "bajo"
	}
}

func sentimentBand(mean float64) string {
	switch {
	case mean <= -0.05:
		return "negativo"
	case mean >= 0.05:
		return "positivo"
	default:
		return "neutro"
	}
}
