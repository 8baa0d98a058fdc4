package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrImportNotFound   ErrCode = "IMPORT_NOT_FOUND"
	ErrGroupOutOfRange  ErrCode = "GROUP_OUT_OF_RANGE"
	ErrStudentNotFound  ErrCode = "STUDENT_NOT_FOUND"
	ErrCurriculumAbsent ErrCode = "CURRICULUM_NOT_FOUND"

	// ─── Import ────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrNoStudentData   ErrCode = "NO_STUDENT_DATA"

	// ─── Documents & remarks ───────────────────────────────────────────
	ErrNoPagesSelected    ErrCode = "NO_PAGES_SELECTED"
	ErrRemarksUnavailable ErrCode = "REMARKS_UNAVAILABLE"
	ErrRemarksRunning     ErrCode = "REMARKS_ALREADY_RUNNING"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "فشل التحقق من البيانات. يرجى مراجعة المدخلات."
	case ErrInvalidID:
		return "صيغة المعرف غير صالحة."
	case ErrInvalidPayload:
		return "محتوى الطلب غير صالح."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "المورد غير موجود."
	case ErrImportNotFound:
		return "لم يتم العثور على الملف المستورد."
	case ErrGroupOutOfRange:
		return "الفوج المطلوب غير موجود في هذا الملف."
	case ErrStudentNotFound:
		return "التلميذ غير موجود في هذا الفوج."
	case ErrCurriculumAbsent:
		return "المستوى أو الفصل غير معروف."

	// ─── Import ────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "يجب رفع ملف."
	case ErrUnsupportedFile:
		return "نوع الملف غير مدعوم. يرجى رفع ملف Excel."
	case ErrFileTooLarge:
		return "حجم الملف يتجاوز الحد المسموح."
	case ErrNoStudentData:
		return "لم يتم العثور على بيانات تلاميذ في هذا الملف."

	// ─── Documents & remarks ───────────────────────────────────────────
	case ErrNoPagesSelected:
		return "يرجى اختيار وثيقة واحدة على الأقل."
	case ErrRemarksUnavailable:
		return "خدمة توليد الملاحظات غير مفعلة."
	case ErrRemarksRunning:
		return "توليد الملاحظات جارٍ بالفعل لهذا الملف."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "طلبات كثيرة جدا. يرجى المحاولة لاحقا."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "حدث خطأ داخلي في الخادم."
	default:
		return "حدث خطأ غير متوقع."
	}
}
