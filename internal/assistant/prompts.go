package assistant

import (
	"fmt"
	"strings"

	"github.com/lamnguyen/cvstudio/internal/profile"
)

// CVSystemPrompt is the HR persona used for CV generation.
const CVSystemPrompt = "Bạn là chuyên gia nhân sự ngành CNTT và chuyên viên viết CV chuyên nghiệp. " +
	"Nhiệm vụ: nhận dữ liệu người dùng (thông tin cá nhân, kỹ năng, kinh nghiệm, dự án) " +
	"và/hoặc JD. Phân tích sự phù hợp giữa hồ sơ và JD, gợi ý cải thiện, " +
	"và tạo CV hoàn chỉnh, hấp dẫn, chuẩn ngành CNTT."

// FewShotExample is the one-shot example shown to the model before the
// user's actual payload.
const FewShotExample = "Ví dụ:\n" +
	"Input:\nNgười dùng có kỹ năng Python, Django, REST API; kinh nghiệm 2 năm backend.\n" +
	"JD: Python Developer yêu cầu Django, REST API, PostgreSQL.\n\n" +
	"Output:\n" +
	"Tóm tắt: Lập trình viên Python có 2 năm kinh nghiệm phát triển API.\n" +
	"Kỹ năng: Python, Django, REST API, PostgreSQL.\n" +
	"Kinh nghiệm: Tối ưu API nội bộ giúp tăng 30% tốc độ xử lý.\n" +
	"=> Hãy tạo CV hoàn chỉnh tương tự với dữ liệu người dùng cung cấp."

// ChatSystemPrompt is the career-advice assistant persona for the sidebar
// chat, including its capability list.
const ChatSystemPrompt = "Bạn là trợ lý ảo chuyên về tư vấn CV và sự nghiệp trong ngành CNTT. " +
	"Bạn có thể giúp người dùng:\n" +
	"- Tư vấn cải thiện CV\n" +
	"- Phân tích mô tả công việc (JD)\n" +
	"- Gợi ý kỹ năng cần phát triển\n" +
	"- Chuẩn bị cho phỏng vấn kỹ thuật\n" +
	"- Tư vấn lộ trình sự nghiệp\n" +
	"- Phân tích file CV/JD được tải lên\n" +
	"- Phân tích hình ảnh CV, JD hoặc các tài liệu liên quan\n" +
	"- Đề xuất cải thiện dựa trên nội dung file hoặc hình ảnh\n" +
	"- So sánh CV với JD để tìm điểm phù hợp\n\n" +
	"Khi người dùng tải lên file hoặc hình ảnh, hãy:\n" +
	"1. Phân tích nội dung (CV, JD, hoặc hình ảnh liên quan)\n" +
	"2. Đưa ra nhận xét và đề xuất cải thiện\n" +
	"3. So sánh với thông tin người dùng nếu có\n" +
	"4. Gợi ý các bước tiếp theo\n\n" +
	"Đối với hình ảnh:\n" +
	"- Nếu là CV dạng ảnh: phân tích bố cục, nội dung, đề xuất cải thiện\n" +
	"- Nếu là JD dạng ảnh: trích xuất yêu cầu công việc, kỹ năng cần thiết\n" +
	"- Nếu là ảnh khác: đưa ra nhận xét phù hợp với ngữ cảnh CV/sự nghiệp\n\n" +
	"Hãy trả lời bằng tiếng Việt, thân thiện và hữu ích. " +
	"Sử dụng thông tin từ hồ sơ người dùng khi có sẵn."

// User-visible failure sentinels. Per the error-handling design these are
// plain strings substituted for the normal answer; no structured error
// reaches the presentation layer.
const (
	ErrProcessingMsg = "Xin lỗi, tôi gặp lỗi khi xử lý yêu cầu. Vui lòng thử lại sau."
	ErrResponseMsg   = "Xin lỗi, tôi gặp lỗi khi xử lý phản hồi. Vui lòng thử lại sau."
	ErrGenerateMsg   = "Không thể tạo CV. Vui lòng thử lại sau."
	ErrTimeoutMsg    = "Request timeout. Please try again."
)

// ContextInfo renders the user's current profile and JD as an addendum to
// the chat system prompt, so the assistant can personalize its answers.
func ContextInfo(p profile.UserProfile, jdText string) string {
	var b strings.Builder
	if p.FullName != "" {
		fmt.Fprintf(&b, "\n\nThông tin người dùng:\n- Tên: %s", p.FullName)
	}
	if len(p.Skills) > 0 {
		fmt.Fprintf(&b, "\n- Kỹ năng: %s", strings.Join(p.Skills, ", "))
	}
	if jdText != "" {
		if runes := []rune(jdText); len(runes) > 200 {
			jdText = string(runes[:200])
		}
		fmt.Fprintf(&b, "\n- JD hiện tại: %s...", jdText)
	}
	return b.String()
}
