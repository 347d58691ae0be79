package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/SaiVinayBathoju/SaiV/config"
	"github.com/SaiVinayBathoju/SaiV/service"
	"github.com/SaiVinayBathoju/SaiV/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index a local PDF file without starting the server",
	Long:  `Extracts text from a PDF on disk and indexes it into the vector store.`,
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		if filePath == "" {
			log.Fatal().Msg("--file is required")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}

		ctx := context.Background()
		deps, err := buildServices(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize services")
		}
		defer deps.close()

		data, err := os.ReadFile(filePath)
		if err != nil {
			log.Fatal().Err(err).Str("file", filePath).Msg("failed to read file")
		}

		content, err := deps.pdf.ExtractText(data, filepath.Base(filePath))
		if err != nil {
			log.Fatal().Err(err).Str("file", filePath).Msg("text extraction failed")
		}

		doc := types.Document{
			ID:         uuid.NewString(),
			SourceType: types.SourceTypePDF,
			SourceID:   filepath.Base(filePath),
			Title:      service.TitleFromFilename(filePath),
			Content:    content,
		}
		chunkCount, err := deps.rag.IngestDocument(ctx, doc)
		if err != nil {
			log.Fatal().Err(err).Str("document_id", doc.ID).Msg("ingestion failed")
		}

		log.Info().
			Str("document_id", doc.ID).
			Str("title", doc.Title).
			Int("chunks", chunkCount).
			Msg("document ingested")
	},
}

func init() {
	ingestCmd.Flags().StringP("file", "f", "", "path to the PDF file to ingest")
	rootCmd.AddCommand(ingestCmd)
}
