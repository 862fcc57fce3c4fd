package model

// PaginationRequest 分页请求参数
type PaginationRequest struct {
	Page     int `form:"page" json:"page" binding:"omitempty,min=1"`           // 当前页码，从1开始
	PageSize int `form:"page_size" json:"page_size" binding:"omitempty,min=1"` // 每页记录数
}

// GetPage 获取页码，默认为1
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 获取每页记录数，默认为10，最大为100
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 10
	}
	if p.PageSize > 100 {
		return 100
	}
	return p.PageSize
}

// Offset 返回分页偏移量
func (p *PaginationRequest) Offset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// DocumentListRequest 入库记录列表请求
type DocumentListRequest struct {
	PaginationRequest
	Status   string `form:"status" binding:"omitempty,oneof=ingested failed queued"` // 入库状态
	FileName string `form:"file_name" binding:"omitempty"`                           // 文件名模糊匹配
}

// Filters 转换为仓储过滤条件
func (r *DocumentListRequest) Filters() map[string]interface{} {
	filters := map[string]interface{}{}
	if r.Status != "" {
		filters["status"] = r.Status
	}
	if r.FileName != "" {
		filters["file_name"] = r.FileName
	}
	return filters
}

// QARequest 问答请求
// 空问题不在绑定阶段拒绝，由流水线返回固定提示
type QARequest struct {
	Question string `json:"question"`
}

// TaskRequest 任务查询请求
type TaskRequest struct {
	ID string `uri:"id" binding:"required"`
}
