package cmd

import "wikitrail/trail/internal/linksource"

// demo returns a small offline link graph for trying the tool without a
// network connection or a link dump.
func demo() *linksource.Static {
	return linksource.NewStatic().
		AddPage("Graph theory", "Mathematics", "Vertex (graph theory)", "Edge (graph theory)", "Leonhard Euler").
		AddPage("Mathematics", "Number theory", "Geometry", "Graph theory").
		AddPage("Vertex (graph theory)", "Graph theory", "Degree (graph theory)").
		AddPage("Edge (graph theory)", "Graph theory", "Vertex (graph theory)").
		AddPage("Degree (graph theory)", "Vertex (graph theory)", "Handshaking lemma").
		AddPage("Handshaking lemma", "Leonhard Euler", "Degree (graph theory)").
		AddPage("Leonhard Euler", "Mathematics", "Seven Bridges of Königsberg", "Basel").
		AddPage("Seven Bridges of Königsberg", "Leonhard Euler", "Graph theory", "Königsberg").
		AddPage("Königsberg", "Prussia", "Immanuel Kant").
		AddPage("Immanuel Kant", "Königsberg", "Philosophy").
		AddPage("Philosophy", "Mathematics").
		AddPage("Number theory", "Mathematics", "Prime number").
		AddPage("Prime number", "Number theory", "Leonhard Euler").
		AddPage("Geometry", "Mathematics", "Euclid").
		AddPage("Euclid", "Geometry").
		AddPage("Basel", "Switzerland").
		AddRedirect("Euler", "Leonhard Euler").
		AddRedirect("Graph Theory", "Graph theory").
		AddRedirect("Koenigsberg", "Königsberg")
}
