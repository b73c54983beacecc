package api

type EmbedDocumentRequest struct {
	Title  string
	Source string
	Chunks []string
}

type DocumentEmbedding struct {
	Title  string
	Source string
	Chunks []string
	Values [][]float32
}
