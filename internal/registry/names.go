package registry

// Task names shared by modules and composed operations.
const (
	TaskDownloadWP     = "download_wp"
	TaskCreateWPDir    = "create_wp_dir"
	TaskUnzipWP        = "unzip_wp"
	TaskDeleteWPUnused = "delete_wp_unused_files"

	TaskDownloadSrc     = "download_src"
	TaskSrcUnzip        = "src_unzip"
	TaskSrcMove         = "src_move"
	TaskCreateThemeInfo = "create_themeinfo"

	TaskCleanAssets   = "clean_assets"
	TaskStyles        = "styles"
	TaskVendorStyles  = "vendor_styles"
	TaskScripts       = "scripts"
	TaskVendorScripts = "vendor_scripts"
	TaskImages        = "images"
	TaskFonts         = "fonts"
	TaskHTML          = "html"

	TaskServe  = "serve"
	TaskWatch  = "watch"
	TaskReload = "reload"
)
