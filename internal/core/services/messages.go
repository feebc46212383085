package services

import (
	"fmt"
	"strings"

	"checkin-bot/internal/core/domain"
)

// CancelButton is the keyboard label that cancels a check-in
const CancelButton = "Batal"

// user-facing texts (Bahasa Indonesia)
const (
	msgPromptPlaceName   = "🏷️ Masukkan NAMA LOKASI (contoh: TB Makmur Jaya, Kantor Pajak):"
	msgPromptRegion      = "📍 Sekarang masukkan WILAYAH (contoh: Surabaya, Jl. Sudirman No. 5):"
	msgPromptLocation    = "📡 Kirim LOKASI Anda dengan tombol \"Kirim Lokasi\" di bawah."
	msgPlaceNameRequired = "⚠️ Nama lokasi tidak boleh kosong."
	msgRegionRequired    = "⚠️ Wilayah tidak boleh kosong."
	msgLocationRequired  = "⚠️ Yang dibutuhkan adalah lokasi (GPS), bukan teks."
	msgLocationInvalid   = "⚠️ Koordinat lokasi tidak valid."
	msgTextRequired      = "⚠️ Mohon kirim teks, bukan lokasi."

	msgCheckInReset    = "🔄 Check-in sebelumnya dibatalkan, memulai dari awal."
	msgCheckInRejected = "⚠️ Check-in masih berjalan. Selesaikan atau ketik /cancel terlebih dahulu."
	msgCancelled       = "Check-in dibatalkan."
	msgNothingToCancel = "Tidak ada check-in yang sedang berjalan."
	msgNoSession       = "Ketik /checkin untuk mulai."
	msgSubmitFailed    = "❌ Check-in gagal disimpan. Silakan ulangi dengan /checkin."

	msgDenied         = "⛔ Anda tidak memiliki akses untuk perintah ini."
	msgUnknownCommand = "❓ Perintah tidak dikenal. Ketik /help untuk daftar perintah."

	msgOwnerImmutable  = "⛔ Owner tidak dapat diubah atau dihapus."
	msgInvalidID       = "⚠️ ID tidak valid: %q"
	msgUsage           = "Format: /%s %s"
	msgDirectoryWrite  = "❌ Gagal menyimpan perubahan akses."
	msgReloadOK        = "🔄 Data akses dimuat ulang: %d entri."
	msgReloadSkipped   = "⚠️ %d baris tidak valid dilewati."
	msgReloadFailed    = "❌ Gagal memuat ulang data akses. Data sebelumnya tetap digunakan."
	msgReloadAfterSave = "⚠️ Perubahan tersimpan, tetapi data akses belum dimuat ulang."
)

// ButtonShareLocation is the label of the location request button
const ButtonShareLocation = "📍 Kirim Lokasi"

func roleLabel(r domain.Role) string {
	switch r {
	case domain.RoleOwner:
		return "owner"
	case domain.RoleAdmin:
		return "admin"
	case domain.RoleAuthorizedUser:
		return "user"
	default:
		return "tidak terdaftar"
	}
}

func greetingText(p domain.Principal, role domain.Role) string {
	name := p.DisplayName
	if name == "" {
		name = "kawan"
	}
	if !role.AtLeast(domain.RoleAuthorizedUser) {
		return fmt.Sprintf("Halo %s! ID Anda %d belum terdaftar.\nHubungi admin untuk mendapatkan akses.", name, p.ID)
	}
	return fmt.Sprintf("Halo %s! Anda login sebagai %s.\nKetik /checkin untuk mulai.", name, roleLabel(role))
}

func successText(r domain.CheckInRecord) string {
	return fmt.Sprintf(
		"✅ CHECK-IN BERHASIL\n🏠 Lokasi: %s\n📍 Wilayah: %s\n🌐 Koordinat: %s, %s\n🗺️ Peta: %s\n🕒 Waktu: %s",
		r.PlaceName,
		r.Region,
		domain.FormatCoordinate(r.Latitude),
		domain.FormatCoordinate(r.Longitude),
		r.MapLink,
		r.Timestamp.Format(domain.TimestampLayout),
	)
}

func directoryListText(title string, owner *int64, entries []domain.DirectoryEntry) string {
	var b strings.Builder
	count := len(entries)
	if owner != nil {
		count++
	}
	fmt.Fprintf(&b, "👥 %s (%d):", title, count)
	if owner != nil {
		fmt.Fprintf(&b, "\n👑 %d (owner)", *owner)
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "\n- %d", e.ID)
		if e.DisplayName != "" {
			fmt.Fprintf(&b, " %s", e.DisplayName)
		}
		if e.Handle != "" {
			fmt.Fprintf(&b, " (@%s)", e.Handle)
		}
	}
	if count == 0 {
		b.WriteString("\n(kosong)")
	}
	return b.String()
}

// replies shorthand
func textReply(id int64, text string) domain.Reply {
	return domain.Reply{PrincipalID: id, Text: text}
}

func promptReply(id int64, text string, step domain.Step) domain.Reply {
	opts := domain.ReplyOptions{Keyboard: []string{CancelButton}}
	if step == domain.StepAwaitingLocation {
		opts.RequestLocation = true
	}
	return domain.Reply{PrincipalID: id, Text: text, Options: opts}
}

func closingReply(id int64, text string) domain.Reply {
	return domain.Reply{PrincipalID: id, Text: text, Options: domain.ReplyOptions{RemoveKeyboard: true}}
}
