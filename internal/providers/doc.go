// Package providers holds the compiled content providers shipped with
// seedbed.
//
// Weights put referenced content first:
//   - taxonomy_term/tags (-20) and user/user (-10) have no dependencies.
//   - media/image and media/document (0) store a generated asset through the
//     toolkit and reference the resulting file entity in `field_media`.
//   - node/page and node/article (10) reference users as `uid`; articles also
//     reference tags and an image media entity.
//   - menu_link_content/main (20) links to generated pages.
//   - file/file (-100) owns stored assets; it runs last when removing.
//
// Every builtin is tracked, so a remove run deletes everything they created.
package providers
