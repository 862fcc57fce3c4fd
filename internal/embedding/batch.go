package embedding

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gammazero/workerpool"
)

// BatchProcessor 批量向量化接口
type BatchProcessor interface {
	// Process 返回与texts一一对应的向量，空白文本对应nil
	Process(ctx context.Context, texts []string) ([][]float32, error)
}

// DefaultBatchProcessor 默认批处理器
// 将大量文本切成小批次，用有界工作池并行请求
type DefaultBatchProcessor struct {
	client     Client // 嵌入客户端
	batchSize  int    // 每批处理的文本数量
	maxWorkers int    // 最大并行工作线程数
}

// NewBatchProcessor 创建新的批处理器
func NewBatchProcessor(client Client, batchSize int, maxWorkers int) *DefaultBatchProcessor {
	if batchSize <= 0 {
		batchSize = 16 // 默认批量大小
	}

	if maxWorkers <= 0 {
		maxWorkers = 4 // 默认工作线程数
	}

	return &DefaultBatchProcessor{
		client:     client,
		batchSize:  batchSize,
		maxWorkers: maxWorkers,
	}
}

// Process 处理一批文本，将它们分成多个小批次并行处理
func (p *DefaultBatchProcessor) Process(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	if len(texts) == 0 {
		return results, nil
	}

	// 记录非空文本在原列表中的位置
	positions := make([]int, 0, len(texts))
	filtered := make([]string, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		positions = append(positions, i)
		filtered = append(filtered, text)
	}
	if len(filtered) == 0 {
		return results, nil
	}

	batches := splitIntoBatches(filtered, p.batchSize)

	wp := workerpool.New(p.maxWorkers)
	batchVectors := make([][][]float32, len(batches))
	var processingErr error
	var errOnce sync.Once

	for i, batch := range batches {
		i, batch := i, batch
		wp.Submit(func() {
			if err := ctx.Err(); err != nil {
				errOnce.Do(func() { processingErr = err })
				return
			}

			vectors, err := p.client.EmbedBatch(ctx, batch)
			if err != nil {
				errOnce.Do(func() {
					processingErr = fmt.Errorf("batch %d processing error: %w", i, err)
				})
				return
			}
			if len(vectors) != len(batch) {
				errOnce.Do(func() {
					processingErr = fmt.Errorf("batch %d returned %d vectors for %d texts", i, len(vectors), len(batch))
				})
				return
			}
			batchVectors[i] = vectors
		})
	}

	wp.StopWait()

	if processingErr != nil {
		return nil, processingErr
	}

	k := 0
	for _, vectors := range batchVectors {
		for _, v := range vectors {
			results[positions[k]] = v
			k++
		}
	}
	return results, nil
}

// splitIntoBatches 将文本列表分割成多个批次
func splitIntoBatches(texts []string, batchSize int) [][]string {
	if batchSize <= 0 {
		batchSize = 1
	}

	batches := make([][]string, 0, (len(texts)+batchSize-1)/batchSize)
	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batches = append(batches, texts[i:end])
	}
	return batches
}
